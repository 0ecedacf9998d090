package dashboard

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"cardiodash/domain/clinical"
	"cardiodash/internal/errors"
	"cardiodash/internal/model"
	"cardiodash/internal/resources"
)

// FormField is one input of the prediction form.
type FormField struct {
	Name   string
	Label  string
	Value  string
	Choice bool
	Min    string
	Max    string
	Step   string
}

var fieldLabels = map[string]string{
	clinical.ColAge:                     "Age",
	clinical.ColAnaemia:                 "Anaemia",
	clinical.ColCreatininePhosphokinase: "Creatinine Phosphokinase",
	clinical.ColDiabetes:                "Diabetes",
	clinical.ColEjectionFraction:        "Ejection Fraction",
	clinical.ColHighBloodPressure:       "High Blood Pressure",
	clinical.ColPlatelets:               "Platelets",
	clinical.ColSerumCreatinine:         "Serum Creatinine",
	clinical.ColSerumSodium:             "Serum Sodium",
	clinical.ColSex:                     "Sex",
	clinical.ColSmoking:                 "Smoking",
	clinical.ColTime:                    "Follow-up Period (days)",
}

var choiceFields = map[string]bool{
	clinical.ColAnaemia:           true,
	clinical.ColDiabetes:          true,
	clinical.ColHighBloodPressure: true,
	clinical.ColSex:               true,
	clinical.ColSmoking:           true,
}

// PredictionResult is the outcome shown after the predict action.
type PredictionResult struct {
	Label           int     `json:"label"`
	Outcome         string  `json:"outcome"`
	Probability     float64 `json:"probability"`
	ProbabilityText string  `json:"probability_text"`
}

// PredictionView is the Model Prediction sub-view. Result stays nil until the
// predict action.
type PredictionView struct {
	Fields []FormField
	Result *PredictionResult
}

// PredictionRenderer shows the patient form and, on request, the prediction.
type PredictionRenderer struct {
	res resources.Provider
}

func (r *PredictionRenderer) Render(ctx context.Context, in Input, v *View) error {
	patient := clinical.DefaultPatientInput()
	if in.Patient != nil {
		patient = *in.Patient
	}
	v.Prediction = &PredictionView{Fields: FormFields(patient)}
	if !in.Predict {
		return nil
	}

	result, err := Predict(ctx, r.res, patient)
	if err != nil {
		return err
	}
	v.Prediction.Result = &result
	return nil
}

// FormFields lays out the form in feature order.
func FormFields(p clinical.PatientInput) []FormField {
	values := p.FeatureVector()
	fields := make([]FormField, len(clinical.FeatureColumns))
	for i, name := range clinical.FeatureColumns {
		f := FormField{
			Name:   name,
			Label:  fieldLabels[name],
			Value:  strconv.FormatFloat(values[i], 'f', -1, 64),
			Choice: choiceFields[name],
			Min:    "0",
			Step:   "1",
		}
		switch name {
		case clinical.ColAge:
			f.Max = "130"
		case clinical.ColEjectionFraction:
			f.Max = "100"
		case clinical.ColPlatelets:
			f.Step = "any"
		case clinical.ColSerumCreatinine:
			f.Step = "0.01"
		}
		fields[i] = f
	}
	return fields
}

// Predict runs the classifier on a single patient.
func Predict(ctx context.Context, res resources.Provider, patient clinical.PatientInput) (PredictionResult, error) {
	if err := patient.Validate(); err != nil {
		return PredictionResult{}, errors.WithCode(errors.CodeInvalidInput, err)
	}
	clf, err := res.Model()
	if err != nil {
		return PredictionResult{}, err
	}

	_, span := otel.Tracer("cardiodash/dashboard").Start(ctx, "model.Predict")
	defer span.End()
	span.SetAttributes(attribute.String("model.name", clf.Name()))

	p, err := model.PredictOne(clf, patient.FeatureVector())
	if err != nil {
		span.RecordError(err)
		return PredictionResult{}, errors.Wrap(err, "prediction failed")
	}
	span.SetAttributes(attribute.Int("model.label", p.Label))

	return PredictionResult{
		Label:           p.Label,
		Outcome:         clinical.OutcomeName(p.Label),
		Probability:     clampProbability(p.Probability),
		ProbabilityText: FormatProbability(p.Probability),
	}, nil
}

func clampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(1, p))
}

// FormatProbability renders p as a percentage with two decimals, clamped to
// [0%, 100%].
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.2f%%", clampProbability(p)*100)
}
