package model

import (
	"encoding/json"
	"errors"
	"math"
	"os"
)

// TreeEnsemble is a bagged ensemble of regression trees. Each tree is stored
// as a flat node array; the prediction is the mean of the per-tree outputs.
type TreeEnsemble struct {
	numFeatures int
	trees       [][]TreeNode
}

// TreeNode is one node of a serialized regression tree. Leaves carry the
// predicted value; internal nodes carry a split and child indices into the
// flat array.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

type treeEnsembleArtifact struct {
	NumFeatures int          `json:"num_features"`
	Trees       [][]TreeNode `json:"trees"`
}

// NewTreeEnsemble builds an ensemble from already-constructed trees.
func NewTreeEnsemble(numFeatures int, trees [][]TreeNode) *TreeEnsemble {
	return &TreeEnsemble{numFeatures: numFeatures, trees: trees}
}

// NumFeatures returns the input width the ensemble was trained on.
func (te *TreeEnsemble) NumFeatures() int {
	return te.numFeatures
}

// Predict averages the outputs of all trees. The vector length must match
// the trained feature width exactly; no truncation or padding happens here.
func (te *TreeEnsemble) Predict(features []float64) (float64, error) {
	if len(te.trees) == 0 {
		return 0, predictionError(errors.New("model not loaded"))
	}
	if len(features) != te.numFeatures {
		return 0, shapeError(len(features), te.numFeatures)
	}

	sum := 0.0
	for _, nodes := range te.trees {
		value, err := evalTree(nodes, features)
		if err != nil {
			return 0, predictionError(err)
		}
		sum += value
	}
	prediction := sum / float64(len(te.trees))
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return 0, predictionError(errors.New("non-finite prediction"))
	}
	return prediction, nil
}

func evalTree(nodes []TreeNode, features []float64) (float64, error) {
	if len(nodes) == 0 {
		return 0, errors.New("empty tree")
	}
	idx := 0
	for {
		node := nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

// Save writes the ensemble as a JSON artifact.
func (te *TreeEnsemble) Save(path string) error {
	if len(te.trees) == 0 {
		return errors.New("model has no trees")
	}
	payload, err := json.Marshal(treeEnsembleArtifact{
		NumFeatures: te.numFeatures,
		Trees:       te.trees,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load reads a JSON artifact written by Save.
func (te *TreeEnsemble) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var artifact treeEnsembleArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return err
	}
	if artifact.NumFeatures <= 0 {
		return errors.New("artifact missing feature width")
	}
	if len(artifact.Trees) == 0 {
		return errors.New("artifact has no trees")
	}
	te.numFeatures = artifact.NumFeatures
	te.trees = artifact.Trees
	return nil
}
