// Command report scores the configured model against the configured dataset
// and prints the classification report and confusion matrix to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"cardiodash/internal/config"
	"cardiodash/internal/dashboard"
	"cardiodash/internal/evaluation"
	"cardiodash/internal/logger"
	"cardiodash/internal/resources"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func main() {
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	datasetPath := flag.String("dataset", appConfig.Data.DatasetPath, "clinical records file (CSV or XLSX)")
	modelPath := flag.String("model", appConfig.Data.ModelPath, "serialized classifier")
	flag.Parse()

	logger.InitWithWriter(appConfig.App.Name+"-report", appConfig.Log.Level, os.Stderr)

	loader := resources.NewLoader(*datasetPath, *modelPath)
	perf, err := dashboard.Evaluate(context.Background(), loader)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to evaluate model")
	}
	renderReport(os.Stdout, perf)
}

func renderReport(w io.Writer, perf *dashboard.PerformanceView) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s: accuracy %.2f over %d records",
		perf.ModelName, perf.Report.Accuracy, perf.Report.Total)))
	fmt.Fprintln(w, reportTable(perf.Report))
	fmt.Fprintln(w, titleStyle.Render("Confusion matrix (rows: actual, columns: predicted)"))
	fmt.Fprintln(w, matrixTable(perf.Matrix))
}

func styled(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	return cellStyle
}

func reportTable(r evaluation.Report) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(styled).
		Headers("", "precision", "recall", "f1-score", "support")
	for _, m := range r.Rows() {
		if m.Label == "accuracy" {
			t.Row(m.Label, "", "", fixed(m.F1), strconv.Itoa(m.Support))
			continue
		}
		t.Row(m.Label, fixed(m.Precision), fixed(m.Recall), fixed(m.F1), strconv.Itoa(m.Support))
	}
	return t.Render()
}

func matrixTable(m evaluation.ConfusionMatrix) string {
	headers := []string{""}
	for _, l := range m.Labels {
		headers = append(headers, strconv.Itoa(l))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(styled).
		Headers(headers...)
	for i, counts := range m.Counts {
		row := []string{strconv.Itoa(m.Labels[i])}
		for _, n := range counts {
			row = append(row, strconv.Itoa(n))
		}
		t.Row(row...)
	}
	return t.Render()
}

func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
