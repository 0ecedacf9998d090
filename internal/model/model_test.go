package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardiodash/domain/clinical"
	"cardiodash/internal/errors"
)

const fixturePath = "../../testdata/forest_model.json"

func loadFixture(t *testing.T) Classifier {
	t.Helper()
	c, err := Load(fixturePath)
	require.NoError(t, err)
	return c
}

func TestLoadForest(t *testing.T) {
	c := loadFixture(t)
	assert.Equal(t, "Random Forest Classifier", c.Name())
	assert.Equal(t, []int{0, 1}, c.Classes())
	assert.Equal(t, clinical.FeatureColumns, c.FeatureNames())
}

func TestDefaultPatientPrediction(t *testing.T) {
	c := loadFixture(t)
	x := clinical.DefaultPatientInput().FeatureVector()

	p, err := PredictOne(c, x)
	require.NoError(t, err)
	assert.Equal(t, clinical.LabelSurvival, p.Label)
	assert.InDelta(t, (0.2+1.0/7.0)/2, p.Probability, 1e-12)
}

func TestPredictionIsDeterministic(t *testing.T) {
	c := loadFixture(t)
	x := []float64{75, 0, 582, 0, 20, 1, 265000, 1.9, 130, 1, 0, 4}

	first, err := PredictOne(c, x)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := PredictOne(c, x)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, clinical.LabelDeath, first.Label)
	assert.InDelta(t, 0.95, first.Probability, 1e-12)
}

func TestProbabilitiesSumToOne(t *testing.T) {
	c := loadFixture(t)
	for _, x := range [][]float64{
		{40, 1, 101, 0, 40, 0, 226000, 0.8, 141, 0, 0, 187},
		{58, 1, 57, 0, 25, 0, 189000, 1.3, 132, 1, 1, 205},
		{49, 1, 80, 0, 30, 1, 427000, 1, 138, 0, 0, 12},
	} {
		proba, err := c.PredictProba(x)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, proba[0]+proba[1], 1e-12)
		for _, p := range proba {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}
}

func TestPredictRejectsWrongWidth(t *testing.T) {
	c := loadFixture(t)
	_, err := c.Predict([]float64{1, 2, 3})
	assert.ErrorContains(t, err, "expects 12")
}

func TestLoadGzipArtifact(t *testing.T) {
	raw, err := os.ReadFile(fixturePath)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "forest.json.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write(raw)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Random Forest Classifier", c.Name())
}

func TestLoadMissingArtifact(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeResourceLoad, errors.GetCode(err))
}

// The one-tree example in testdata is the documented artifact layout.
func TestLoadMinimalArtifact(t *testing.T) {
	c, err := Load("../../testdata/minimal_forest.json")
	require.NoError(t, err)
	assert.Equal(t, "Random Forest Classifier", c.Name())
	assert.Equal(t, clinical.FeatureColumns, c.FeatureNames())

	x := clinical.DefaultPatientInput().FeatureVector()
	x[4] = 20
	p, err := PredictOne(c, x)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Label)
	assert.InDelta(t, 0.8, p.Probability, 1e-9)

	x[4] = 38
	p, err = PredictOne(c, x)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Label)
	assert.InDelta(t, 0.2, p.Probability, 1e-9)
}

func TestDecodeRejectsMalformedArtifacts(t *testing.T) {
	cases := map[string]string{
		"multiclass":   `{"classes":[0,1,2],"trees":[]}`,
		"no trees":     `{"model_type":"random_forest","classes":[0,1]}`,
		"bad features": `{"classes":[0,1],"feature_names":["age"],"trees":[]}`,
		"bad child": `{"classes":[0,1],"trees":[{"children_left":[5],"children_right":[6],
			"feature":[0],"threshold":[1],"value":[[1,1]]}]}`,
		"unknown kind": `{"model_type":"svm","classes":[0,1]}`,
	}
	for name, doc := range cases {
		_, err := Decode(strings.NewReader(doc))
		assert.Error(t, err, name)
	}
}

func TestLogisticRegression(t *testing.T) {
	coef := make([]string, 12)
	for i := range coef {
		coef[i] = "0"
	}
	coef[11] = "-0.02"
	doc := `{"model_type":"logistic_regression","classes":[0,1],"coef":[` +
		strings.Join(coef, ",") + `],"intercept":2.6}`

	c, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	early := make([]float64, 12)
	early[11] = 10
	late := make([]float64, 12)
	late[11] = 250

	label, err := c.Predict(early)
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	label, err = c.Predict(late)
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}
