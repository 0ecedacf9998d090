package dashboard

import (
	"context"
	"html/template"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"cardiodash/internal/charts"
	"cardiodash/internal/errors"
	"cardiodash/internal/evaluation"
	"cardiodash/internal/model"
	"cardiodash/internal/resources"
)

const modelNotes = `**Model Used:** Random Forest Classifier  
**Evaluation Metrics:** Accuracy, Precision, Recall, F1-Score`

// PerformanceView is the Model Performance sub-view.
type PerformanceView struct {
	ModelName string
	Report    evaluation.Report
	Matrix    evaluation.ConfusionMatrix
	Grid      charts.Heatmap
	Notes     template.HTML
}

// PerformanceRenderer scores the model on the full dataset.
type PerformanceRenderer struct {
	res resources.Provider
}

func (r *PerformanceRenderer) Render(ctx context.Context, _ Input, v *View) error {
	perf, err := Evaluate(ctx, r.res)
	if err != nil {
		return err
	}
	v.Performance = perf
	return nil
}

// Evaluate predicts every record of the dataset and scores the predictions
// against the recorded outcome.
func Evaluate(ctx context.Context, res resources.Provider) (*PerformanceView, error) {
	ds, err := res.Dataset()
	if err != nil {
		return nil, err
	}
	clf, err := res.Model()
	if err != nil {
		return nil, err
	}

	_, span := otel.Tracer("cardiodash/dashboard").Start(ctx, "model.Evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("model.name", clf.Name()), attribute.Int("dataset.rows", ds.Len()))

	predicted, err := model.PredictAll(clf, ds.Features())
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to score dataset")
	}
	matrix, err := evaluation.NewConfusionMatrix(ds.Targets(), predicted)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build confusion matrix")
	}
	report := evaluation.ClassificationReport(matrix)
	span.SetAttributes(attribute.Float64("model.accuracy", report.Accuracy))

	return &PerformanceView{
		ModelName: clf.Name(),
		Report:    report,
		Matrix:    matrix,
		Grid:      charts.ConfusionGrid(matrix),
		Notes:     RenderMarkdown(modelNotes),
	}, nil
}
