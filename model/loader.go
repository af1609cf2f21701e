package model

import (
	"fmt"
	"os"
)

// Load deserializes a model artifact from disk. A missing file reports
// ErrArtifactNotFound with the attempted path; any other deserialization
// failure propagates as a plain load error. Schema and version of the
// artifact are not validated beyond what decoding requires.
func Load(modelType, path string) (Regressor, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
	}

	switch modelType {
	case "tree_ensemble":
		m := &TreeEnsemble{}
		if err := m.Load(path); err != nil {
			return nil, fmt.Errorf("load tree ensemble from %s: %w", path, err)
		}
		return m, nil
	case "linear":
		m := &LinearModel{}
		if err := m.Load(path); err != nil {
			return nil, fmt.Errorf("load linear model from %s: %w", path, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", modelType)
	}
}
