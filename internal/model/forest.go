package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const leafNode = -1

// Tree is one decision tree in the parallel-array layout of the exported
// artifact. Node i splits on x[Feature[i]] <= Threshold[i]; leaves have
// ChildrenLeft[i] == -1.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// leafDistribution walks to the leaf for x and returns its normalized class
// distribution.
func (t *Tree) leafDistribution(x []float64) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	dist := append([]float64(nil), t.Value[node]...)
	if total := floats.Sum(dist); total > 0 {
		floats.Scale(1/total, dist)
	}
	return dist
}

func (t *Tree) validate(nFeatures, nClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree arrays have mismatched lengths")
	}
	for i := 0; i < n; i++ {
		if len(t.Value[i]) != nClasses {
			return fmt.Errorf("node %d has %d class values, want %d", i, len(t.Value[i]), nClasses)
		}
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafNode {
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has children out of range", i)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, f, nFeatures)
		}
	}
	return nil
}

// RandomForest averages the leaf class distributions of its trees.
type RandomForest struct {
	name      string
	classes   []int
	features  []string
	nFeatures int
	trees     []Tree
}

// PredictProba returns the mean class distribution over all trees.
func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(x, f.nFeatures); err != nil {
		return nil, err
	}
	proba := make([]float64, len(f.classes))
	for i := range f.trees {
		floats.Add(proba, f.trees[i].leafDistribution(x))
	}
	floats.Scale(1/float64(len(f.trees)), proba)
	return proba, nil
}

// Predict returns the class with the highest mean probability, the first one on ties.
func (f *RandomForest) Predict(x []float64) (int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return f.classes[floats.MaxIdx(proba)], nil
}

func (f *RandomForest) Classes() []int         { return append([]int(nil), f.classes...) }
func (f *RandomForest) FeatureNames() []string { return append([]string(nil), f.features...) }
func (f *RandomForest) Name() string           { return f.name }
