// Command genmodel writes a synthetic model artifact so the service and its
// tests have something to load. It is a fixture generator, not a trainer:
// the emitted model encodes a rough radiation-driven production curve.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"solarcast/model"
)

func main() {
	modelType := flag.String("type", "tree_ensemble", "artifact type: tree_ensemble or linear")
	out := flag.String("out", "./data/production_model.json", "artifact output path")
	trees := flag.Int("trees", 25, "number of trees (tree_ensemble only)")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	switch *modelType {
	case "tree_ensemble":
		ensemble := buildEnsemble(*trees, rand.New(rand.NewSource(*seed)))
		if err := ensemble.Save(*out); err != nil {
			log.Fatalf("failed to save artifact: %v", err)
		}
	case "linear":
		if err := buildLinear().Save(*out); err != nil {
			log.Fatalf("failed to save artifact: %v", err)
		}
	default:
		log.Fatalf("unsupported model type %q", *modelType)
	}

	fmt.Printf("artifact saved to %s\n", *out)
}

// buildLinear encodes production as mostly radiation plus sunshine and
// temperature terms, damped by humidity.
func buildLinear() *model.LinearModel {
	return &model.LinearModel{
		Intercept: 120,
		// date_hour, wind_speed, sunshine, air_pressure, radiation,
		// air_temperature, relative_humidity
		Weights: []float64{0, -1.2, 14.5, 0.05, 0.9, 3.1, -1.8},
	}
}

// buildEnsemble emits depth-2 trees splitting on radiation and sunshine,
// with leaf values jittered around the linear curve so the ensemble average
// stays close to it.
func buildEnsemble(count int, rnd *rand.Rand) *model.TreeEnsemble {
	linear := buildLinear()

	trees := make([][]model.TreeNode, 0, count)
	for i := 0; i < count; i++ {
		radiationSplit := 300 + rnd.Float64()*700 // W/m²
		sunshineSplit := 2 + rnd.Float64()*10     // hours

		leaf := func(radiation, sunshine float64) model.TreeNode {
			base := model.DefaultVector()
			base.Radiation = radiation
			base.Sunshine = sunshine
			value, _ := linear.Predict(base.Values())
			value += (rnd.Float64() - 0.5) * 40
			return model.TreeNode{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: value, IsLeaf: true}
		}

		trees = append(trees, []model.TreeNode{
			{FeatureIdx: 4, Threshold: radiationSplit, LeftChild: 1, RightChild: 4},
			{FeatureIdx: 2, Threshold: sunshineSplit, LeftChild: 2, RightChild: 3},
			leaf(radiationSplit/2, sunshineSplit/2),
			leaf(radiationSplit/2, sunshineSplit+4),
			{FeatureIdx: 2, Threshold: sunshineSplit, LeftChild: 5, RightChild: 6},
			leaf(radiationSplit+300, sunshineSplit/2),
			leaf(radiationSplit+300, sunshineSplit+4),
		})
	}
	return model.NewTreeEnsemble(model.FeatureCount, trees)
}
