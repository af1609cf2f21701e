package model

import (
	"errors"
	"fmt"
)

// The two failure modes a caller can observe. Everything the underlying
// artifact can get wrong at inference time surfaces as ErrPrediction;
// a missing artifact file surfaces as ErrArtifactNotFound.
var (
	ErrArtifactNotFound = errors.New("model artifact not found")
	ErrPrediction       = errors.New("prediction failed")
)

// Regressor produces a scalar prediction from a positional feature vector.
// Implementations are immutable after load and safe for concurrent use.
type Regressor interface {
	Predict(features []float64) (float64, error)
	NumFeatures() int
}

func predictionError(cause error) error {
	return fmt.Errorf("%w: %v", ErrPrediction, cause)
}

func shapeError(got, want int) error {
	return fmt.Errorf("%w: expected %d features, got %d", ErrPrediction, want, got)
}
