// Package evaluation scores predicted labels against ground truth.
package evaluation

import (
	"fmt"
	"slices"
	"strconv"
)

// ConfusionMatrix counts outcomes; Counts[i][j] is the number of records whose
// true label is Labels[i] and predicted label is Labels[j].
type ConfusionMatrix struct {
	Labels []int
	Counts [][]int
}

// Total is the number of scored records.
func (m ConfusionMatrix) Total() int {
	total := 0
	for _, row := range m.Counts {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// NewConfusionMatrix tabulates yTrue against yPred over the sorted union of labels.
func NewConfusionMatrix(yTrue, yPred []int) (ConfusionMatrix, error) {
	if len(yTrue) != len(yPred) {
		return ConfusionMatrix{}, fmt.Errorf("got %d true labels and %d predictions", len(yTrue), len(yPred))
	}
	labels := append(append([]int(nil), yTrue...), yPred...)
	slices.Sort(labels)
	labels = slices.Compact(labels)

	pos := make(map[int]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}
	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		counts[pos[yTrue[i]]][pos[yPred[i]]]++
	}
	return ConfusionMatrix{Labels: labels, Counts: counts}, nil
}

// Metrics is one row of a classification report.
type Metrics struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is a per-class precision/recall/F1 table with aggregate rows.
type Report struct {
	Classes     []Metrics
	Accuracy    float64
	MacroAvg    Metrics
	WeightedAvg Metrics
	Total       int
}

// Rows lists the report in display order: classes, accuracy, macro avg,
// weighted avg. The accuracy row carries the score in F1 only.
func (r Report) Rows() []Metrics {
	rows := append([]Metrics(nil), r.Classes...)
	rows = append(rows, Metrics{Label: "accuracy", F1: r.Accuracy, Support: r.Total})
	return append(rows, r.MacroAvg, r.WeightedAvg)
}

// ClassificationReport derives the report from a confusion matrix. Zero
// denominators score 0.
func ClassificationReport(m ConfusionMatrix) Report {
	n := len(m.Labels)
	report := Report{Total: m.Total()}
	macro := Metrics{Label: "macro avg", Support: report.Total}
	weighted := Metrics{Label: "weighted avg", Support: report.Total}

	correct := 0
	for i := 0; i < n; i++ {
		tp := m.Counts[i][i]
		correct += tp
		support, predicted := 0, 0
		for j := 0; j < n; j++ {
			support += m.Counts[i][j]
			predicted += m.Counts[j][i]
		}
		c := Metrics{
			Label:     strconv.Itoa(m.Labels[i]),
			Precision: ratio(tp, predicted),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		if c.Precision+c.Recall > 0 {
			c.F1 = 2 * c.Precision * c.Recall / (c.Precision + c.Recall)
		}
		report.Classes = append(report.Classes, c)

		macro.Precision += c.Precision / float64(n)
		macro.Recall += c.Recall / float64(n)
		macro.F1 += c.F1 / float64(n)
		if report.Total > 0 {
			w := float64(support) / float64(report.Total)
			weighted.Precision += c.Precision * w
			weighted.Recall += c.Recall * w
			weighted.F1 += c.F1 * w
		}
	}
	report.Accuracy = ratio(correct, report.Total)
	report.MacroAvg = macro
	report.WeightedAvg = weighted
	return report
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
