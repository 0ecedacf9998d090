package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardiodash/domain/clinical"
	"cardiodash/internal/dashboard"
	"cardiodash/internal/errors"
	"cardiodash/internal/evaluation"
)

type metricsJSON struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

type performanceJSON struct {
	Model           string        `json:"model"`
	Accuracy        float64       `json:"accuracy"`
	Report          []metricsJSON `json:"report"`
	Labels          []int         `json:"labels"`
	ConfusionMatrix [][]int       `json:"confusion_matrix"`
	Total           int           `json:"total"`
}

func newPerformanceJSON(p *dashboard.PerformanceView) performanceJSON {
	out := performanceJSON{
		Model:           p.ModelName,
		Accuracy:        p.Report.Accuracy,
		Labels:          p.Matrix.Labels,
		ConfusionMatrix: p.Matrix.Counts,
		Total:           p.Matrix.Total(),
	}
	for _, m := range p.Report.Rows() {
		out.Report = append(out.Report, metricsFromReport(m))
	}
	return out
}

func metricsFromReport(m evaluation.Metrics) metricsJSON {
	return metricsJSON{Label: m.Label, Precision: m.Precision, Recall: m.Recall, F1: m.F1, Support: m.Support}
}

// respondError writes a coded error as JSON
func respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errors.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

// handleAPIPredict predicts one patient. Omitted fields take the form defaults.
func (s *Server) handleAPIPredict(c *gin.Context) {
	patient := clinical.DefaultPatientInput()
	if err := c.ShouldBindJSON(&patient); err != nil {
		respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	result, err := dashboard.Predict(c.Request.Context(), s.resources, patient)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleAPIPerformance scores the model on the full dataset
func (s *Server) handleAPIPerformance(c *gin.Context) {
	perf, err := dashboard.Evaluate(c.Request.Context(), s.resources)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPerformanceJSON(perf))
}

// handleChart serves a rendered SVG chart
func (s *Server) handleChart(c *gin.Context) {
	if s.charts == nil {
		respondError(c, errors.NotFound("chart renderer"))
		return
	}
	ds, err := s.resources.Dataset()
	if err != nil {
		respondError(c, err)
		return
	}
	svg, err := s.charts.SVG(c.Param("name"), ds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/svg+xml", svg)
}
