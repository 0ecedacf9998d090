package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogisticRegression is a binary linear model: P(class 1) = sigmoid(w·x + b).
type LogisticRegression struct {
	name      string
	classes   []int
	features  []string
	coef      []float64
	intercept float64
}

// PredictProba returns [P(classes[0]), P(classes[1])].
func (l *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(x, len(l.coef)); err != nil {
		return nil, err
	}
	p := 1 / (1 + math.Exp(-(floats.Dot(l.coef, x) + l.intercept)))
	return []float64{1 - p, p}, nil
}

// Predict thresholds the positive probability at 0.5.
func (l *LogisticRegression) Predict(x []float64) (int, error) {
	proba, err := l.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if proba[1] > 0.5 {
		return l.classes[1], nil
	}
	return l.classes[0], nil
}

func (l *LogisticRegression) Classes() []int         { return append([]int(nil), l.classes...) }
func (l *LogisticRegression) FeatureNames() []string { return append([]string(nil), l.features...) }
func (l *LogisticRegression) Name() string           { return l.name }
