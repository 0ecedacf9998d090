// Package model loads the pre-trained outcome classifier and runs inference.
// Loaded classifiers are immutable and safe for concurrent use.
package model

import (
	"fmt"
)

// Classifier is a binary outcome model over the clinical feature vector.
type Classifier interface {
	// Predict returns the most probable class label.
	Predict(x []float64) (int, error)
	// PredictProba returns one probability per entry of Classes.
	PredictProba(x []float64) ([]float64, error)
	Classes() []int
	FeatureNames() []string
	Name() string
}

// Prediction is the outcome of a single inference.
type Prediction struct {
	Label       int
	Probability float64 // probability of the positive class
}

// PredictOne runs both calls the dashboard needs for a single patient.
func PredictOne(c Classifier, x []float64) (Prediction, error) {
	label, err := c.Predict(x)
	if err != nil {
		return Prediction{}, err
	}
	proba, err := c.PredictProba(x)
	if err != nil {
		return Prediction{}, err
	}
	pos, err := positiveIndex(c.Classes())
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Label: label, Probability: proba[pos]}, nil
}

// PredictAll labels every row.
func PredictAll(c Classifier, rows [][]float64) ([]int, error) {
	out := make([]int, len(rows))
	for i, x := range rows {
		label, err := c.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = label
	}
	return out, nil
}

func positiveIndex(classes []int) (int, error) {
	for i, c := range classes {
		if c == 1 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("classifier has no positive class in %v", classes)
}

func checkWidth(x []float64, want int) error {
	if len(x) != want {
		return fmt.Errorf("feature vector has %d values, model expects %d", len(x), want)
	}
	return nil
}
