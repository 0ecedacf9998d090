package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Labels from the testdata fixture scored by the testdata forest.
var (
	fixtureTrue = []int{1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0}
	fixturePred = []int{1, 1, 1, 1, 1, 1, 0, 1, 0, 0, 0, 0, 0, 0, 1, 1}
)

func TestConfusionMatrix(t *testing.T) {
	m, err := NewConfusionMatrix(fixtureTrue, fixturePred)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, m.Labels)
	assert.Equal(t, [][]int{{7, 2}, {0, 7}}, m.Counts)
	assert.Equal(t, len(fixtureTrue), m.Total())
}

func TestConfusionMatrixLengthMismatch(t *testing.T) {
	_, err := NewConfusionMatrix([]int{0, 1}, []int{0})
	assert.Error(t, err)
}

func TestConfusionMatrixSingleClassPredictions(t *testing.T) {
	m, err := NewConfusionMatrix([]int{0, 1, 1}, []int{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {0, 2}}, m.Counts)
}

func TestClassificationReport(t *testing.T) {
	m, err := NewConfusionMatrix(fixtureTrue, fixturePred)
	require.NoError(t, err)
	r := ClassificationReport(m)

	require.Len(t, r.Classes, 2)
	survival, death := r.Classes[0], r.Classes[1]

	assert.Equal(t, "0", survival.Label)
	assert.InDelta(t, 1.0, survival.Precision, 1e-9)
	assert.InDelta(t, 7.0/9.0, survival.Recall, 1e-9)
	assert.InDelta(t, 0.875, survival.F1, 1e-9)
	assert.Equal(t, 9, survival.Support)

	assert.Equal(t, "1", death.Label)
	assert.InDelta(t, 7.0/9.0, death.Precision, 1e-9)
	assert.InDelta(t, 1.0, death.Recall, 1e-9)
	assert.InDelta(t, 0.875, death.F1, 1e-9)
	assert.Equal(t, 7, death.Support)

	assert.InDelta(t, 0.875, r.Accuracy, 1e-9)
	assert.InDelta(t, 8.0/9.0, r.MacroAvg.Precision, 1e-9)
	assert.InDelta(t, 0.875, r.MacroAvg.F1, 1e-9)
	assert.InDelta(t, (9+7*7.0/9.0)/16, r.WeightedAvg.Precision, 1e-9)
	assert.InDelta(t, 0.875, r.WeightedAvg.Recall, 1e-9)

	rows := r.Rows()
	require.Len(t, rows, 5)
	assert.Equal(t, "accuracy", rows[2].Label)
	assert.Equal(t, 16, rows[2].Support)
	assert.Equal(t, "weighted avg", rows[4].Label)
}

func TestClassificationReportZeroDivision(t *testing.T) {
	m, err := NewConfusionMatrix([]int{0, 0, 1}, []int{0, 0, 0})
	require.NoError(t, err)
	r := ClassificationReport(m)

	assert.Equal(t, 0.0, r.Classes[1].Precision)
	assert.Equal(t, 0.0, r.Classes[1].F1)
	assert.InDelta(t, 2.0/3.0, r.Accuracy, 1e-9)
}
