// Package predictor wraps the loaded regression model behind a service that
// validates inputs, caches results and fans predictions out to storage and
// live subscribers.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"solarcast/model"
)

const defaultCacheSize = 256

// Recorder persists completed predictions.
type Recorder interface {
	SavePrediction(features model.FeatureVector, prediction float64, at time.Time) error
}

// Broadcaster delivers completed predictions to live subscribers.
type Broadcaster interface {
	BroadcastPrediction(Result)
}

// Result is one completed prediction.
type Result struct {
	Prediction float64   `json:"prediction"`
	DateHour   float64   `json:"date_hour"`
	Features   []float64 `json:"features"`
	Timestamp  time.Time `json:"timestamp"`
	Cached     bool      `json:"cached"`
}

// Snapshot describes the currently loaded model.
type Snapshot struct {
	ModelType    string    `json:"model_type"`
	ArtifactPath string    `json:"artifact_path"`
	Loaded       bool      `json:"loaded"`
	NumFeatures  int       `json:"num_features"`
	LoadedAt     time.Time `json:"loaded_at"`
	FieldOrder   []string  `json:"field_order"`
}

// Service owns the regressor handle for the life of the process. It is
// constructed once at startup and passed into the request path; the handle
// only changes when Reload swaps in a re-read artifact.
type Service struct {
	mu        sync.RWMutex
	regressor model.Regressor
	loadedAt  time.Time

	modelType    string
	artifactPath string

	cache    *lru.Cache[[model.FeatureCount]float64, float64]
	recorder Recorder
	feed     Broadcaster
	log      *zap.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithRecorder persists every prediction through r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithBroadcaster publishes every prediction through b.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) { s.feed = b }
}

// WithCacheSize overrides the inference cache capacity.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			cache, err := lru.New[[model.FeatureCount]float64, float64](size)
			if err == nil {
				s.cache = cache
			}
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New loads the artifact once and builds the service around it. A missing
// artifact does not fail construction: the service starts degraded, every
// Predict reports ErrArtifactNotFound with the attempted path, and a later
// Reload can pick the file up. Any other load failure is terminal.
func New(modelType, artifactPath string, opts ...Option) (*Service, error) {
	cache, err := lru.New[[model.FeatureCount]float64, float64](defaultCacheSize)
	if err != nil {
		return nil, err
	}

	s := &Service{
		modelType:    modelType,
		artifactPath: artifactPath,
		cache:        cache,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	regressor, err := model.Load(modelType, artifactPath)
	switch {
	case err == nil:
		s.regressor = regressor
		s.loadedAt = time.Now()
	case errors.Is(err, model.ErrArtifactNotFound):
		s.log.Warn("model artifact missing, starting without a model",
			zap.String("path", artifactPath))
	default:
		return nil, err
	}
	return s, nil
}

// Predict validates the widget bounds, runs inference and fans the result
// out. The model itself performs no bounds checking.
func (s *Service) Predict(ctx context.Context, features model.FeatureVector) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := features.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid input: %w", err)
	}

	result := Result{
		DateHour:  features.DateHour,
		Features:  features.Values(),
		Timestamp: time.Now(),
	}

	key := features.Key()
	if prediction, ok := s.cache.Get(key); ok {
		result.Prediction = prediction
		result.Cached = true
	} else {
		s.mu.RLock()
		regressor := s.regressor
		s.mu.RUnlock()
		if regressor == nil {
			return Result{}, fmt.Errorf("%w: %s", model.ErrArtifactNotFound, s.artifactPath)
		}

		prediction, err := regressor.Predict(result.Features)
		if err != nil {
			s.log.Warn("inference failed", zap.Error(err))
			return Result{}, err
		}
		s.cache.Add(key, prediction)
		result.Prediction = prediction
	}

	if s.recorder != nil {
		if err := s.recorder.SavePrediction(features, result.Prediction, result.Timestamp); err != nil {
			// History is best effort; the prediction already succeeded.
			s.log.Warn("failed to record prediction", zap.Error(err))
		}
	}
	if s.feed != nil {
		s.feed.BroadcastPrediction(result)
	}

	s.log.Info("prediction served",
		zap.Float64("date_hour", result.DateHour),
		zap.Float64("prediction", result.Prediction),
		zap.Bool("cached", result.Cached))
	return result, nil
}

// Reload re-reads the artifact from disk and swaps the regressor handle.
// The inference cache is purged so stale results cannot be served.
func (s *Service) Reload() error {
	regressor, err := model.Load(s.modelType, s.artifactPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.regressor = regressor
	s.loadedAt = time.Now()
	s.mu.Unlock()
	s.cache.Purge()

	s.log.Info("model reloaded", zap.String("path", s.artifactPath))
	return nil
}

// Snapshot reports the loaded model's metadata for the status surfaces.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order := make([]string, len(model.Fields))
	for i, f := range model.Fields {
		order[i] = f.Key
	}
	snap := Snapshot{
		ModelType:    s.modelType,
		ArtifactPath: s.artifactPath,
		LoadedAt:     s.loadedAt,
		FieldOrder:   order,
	}
	if s.regressor != nil {
		snap.Loaded = true
		snap.NumFeatures = s.regressor.NumFeatures()
	}
	return snap
}
