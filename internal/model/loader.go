package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"

	"cardiodash/domain/clinical"
	"cardiodash/internal/errors"
)

// Artifact kinds understood by Load.
const (
	KindRandomForest       = "random_forest"
	KindLogisticRegression = "logistic_regression"
)

// artifact is the JSON document exported from the training environment.
type artifact struct {
	ModelType    string    `json:"model_type"`
	Name         string    `json:"name"`
	Classes      []int     `json:"classes"`
	FeatureNames []string  `json:"feature_names"`
	Trees        []Tree    `json:"trees"`
	Coef         []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
}

// Load reads a model artifact. Paths ending in .gz are gunzipped first.
func Load(path string) (Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ResourceLoad("model", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.ResourceLoad("model", err)
		}
		defer gz.Close()
		r = gz
	}

	c, err := Decode(r)
	if err != nil {
		return nil, errors.ResourceLoad("model", err)
	}
	log.Info().Str("path", path).Str("model", c.Name()).Msg("[Model] loaded")
	return c, nil
}

// Decode parses and validates an artifact document.
func Decode(r io.Reader) (Classifier, error) {
	var a artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if len(a.Classes) != 2 {
		return nil, fmt.Errorf("expected a binary classifier, got classes %v", a.Classes)
	}
	if _, err := positiveIndex(a.Classes); err != nil {
		return nil, err
	}
	features := a.FeatureNames
	if len(features) == 0 {
		features = clinical.FeatureColumns
	}
	if !slices.Equal(features, clinical.FeatureColumns) {
		return nil, fmt.Errorf("model features %v do not match dataset features %v", features, clinical.FeatureColumns)
	}

	switch a.ModelType {
	case KindRandomForest, "":
		if len(a.Trees) == 0 {
			return nil, fmt.Errorf("random forest has no trees")
		}
		for i := range a.Trees {
			if err := a.Trees[i].validate(len(features), len(a.Classes)); err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
		}
		return &RandomForest{
			name:      nameOr(a.Name, "Random Forest Classifier"),
			classes:   a.Classes,
			features:  features,
			nFeatures: len(features),
			trees:     a.Trees,
		}, nil
	case KindLogisticRegression:
		if len(a.Coef) != len(features) {
			return nil, fmt.Errorf("logistic regression has %d coefficients for %d features", len(a.Coef), len(features))
		}
		return &LogisticRegression{
			name:      nameOr(a.Name, "Logistic Regression"),
			classes:   a.Classes,
			features:  features,
			coef:      a.Coef,
			intercept: a.Intercept,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported model_type %q", a.ModelType)
	}
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
