package model

import (
	"encoding/json"
	"errors"
	"math"
	"os"
)

// LinearModel is a plain linear regression artifact: an intercept plus one
// weight per feature.
type LinearModel struct {
	Intercept float64   `json:"intercept"`
	Weights   []float64 `json:"weights"`
}

// NumFeatures returns the number of weights.
func (lm *LinearModel) NumFeatures() int {
	return len(lm.Weights)
}

// Predict computes intercept + w·x.
func (lm *LinearModel) Predict(features []float64) (float64, error) {
	if len(lm.Weights) == 0 {
		return 0, predictionError(errors.New("model not loaded"))
	}
	if len(features) != len(lm.Weights) {
		return 0, shapeError(len(features), len(lm.Weights))
	}
	prediction := lm.Intercept
	for i, w := range lm.Weights {
		prediction += w * features[i]
	}
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return 0, predictionError(errors.New("non-finite prediction"))
	}
	return prediction, nil
}

// Save writes the model as a JSON artifact.
func (lm *LinearModel) Save(path string) error {
	if len(lm.Weights) == 0 {
		return errors.New("model has no weights")
	}
	payload, err := json.Marshal(lm)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load reads a JSON artifact written by Save.
func (lm *LinearModel) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded LinearModel
	if err := json.Unmarshal(payload, &loaded); err != nil {
		return err
	}
	if len(loaded.Weights) == 0 {
		return errors.New("artifact has no weights")
	}
	*lm = loaded
	return nil
}
