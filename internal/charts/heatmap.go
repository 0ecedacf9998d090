package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"cardiodash/internal/dataset"
	"cardiodash/internal/evaluation"
)

// Cell is one coloured square of a Heatmap.
type Cell struct {
	Value      float64
	Text       string
	Background string
	Foreground string
}

// Heatmap is an annotated colour grid laid out by the templates.
type Heatmap struct {
	Title string
	Rows  []string
	Cols  []string
	Cells [][]Cell
}

type rgb struct{ r, g, b float64 }

// coolwarm anchors: blue at -1, light grey at 0, red at +1.
var (
	coolLow  = rgb{59, 76, 192}
	coolMid  = rgb{221, 221, 221}
	coolHigh = rgb{180, 4, 38}
)

// viridis endpoints for count grids.
var (
	countLow  = rgb{68, 1, 84}
	countMid  = rgb{33, 145, 140}
	countHigh = rgb{253, 231, 37}
)

func lerp(a, b rgb, t float64) rgb {
	return rgb{a.r + (b.r-a.r)*t, a.g + (b.g-a.g)*t, a.b + (b.b-a.b)*t}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02X%02X%02X", uint8(math.Round(c.r)), uint8(math.Round(c.g)), uint8(math.Round(c.b)))
}

// luminance decides between dark and light annotation text.
func (c rgb) foreground() string {
	if 0.299*c.r+0.587*c.g+0.114*c.b > 150 {
		return "#111111"
	}
	return "#FFFFFF"
}

// CoolWarm maps a correlation in [-1, 1] to a diverging colour.
func CoolWarm(v float64) string {
	return coolWarm(v).hex()
}

func coolWarm(v float64) rgb {
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return lerp(coolMid, coolLow, -v)
	}
	return lerp(coolMid, coolHigh, v)
}

func sequential(t float64) rgb {
	t = math.Max(0, math.Min(1, t))
	if t < 0.5 {
		return lerp(countLow, countMid, t*2)
	}
	return lerp(countMid, countHigh, (t-0.5)*2)
}

// CorrelationMatrix computes pairwise Pearson correlation over every numeric
// column. Constant columns yield NaN.
func CorrelationMatrix(ds *dataset.Dataset) ([]string, [][]float64) {
	cols := ds.NumericColumns()
	data := make([][]float64, len(cols))
	for i, name := range cols {
		data[i], _ = ds.Column(name)
	}
	matrix := make([][]float64, len(cols))
	for i := range cols {
		matrix[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := stat.Correlation(data[i], data[j], nil)
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			matrix[i][j], matrix[j][i] = r, r
		}
	}
	return cols, matrix
}

// CorrelationHeatmap builds the annotated correlation grid.
func CorrelationHeatmap(ds *dataset.Dataset) Heatmap {
	cols, matrix := CorrelationMatrix(ds)
	h := Heatmap{Title: "Correlation Heatmap", Rows: cols, Cols: cols, Cells: make([][]Cell, len(cols))}
	for i, row := range matrix {
		h.Cells[i] = make([]Cell, len(row))
		for j, r := range row {
			if math.IsNaN(r) {
				h.Cells[i][j] = Cell{Value: r, Text: "n/a", Background: "#FFFFFF", Foreground: "#999999"}
				continue
			}
			c := coolWarm(r)
			h.Cells[i][j] = Cell{Value: r, Text: fmt.Sprintf("%.2f", r), Background: c.hex(), Foreground: c.foreground()}
		}
	}
	return h
}

// ConfusionGrid colours confusion matrix counts relative to the largest cell.
func ConfusionGrid(m evaluation.ConfusionMatrix) Heatmap {
	names := make([]string, len(m.Labels))
	for i, l := range m.Labels {
		names[i] = fmt.Sprint(l)
	}
	peak := 0
	for _, row := range m.Counts {
		for _, n := range row {
			peak = max(peak, n)
		}
	}

	h := Heatmap{Title: "Confusion Matrix", Rows: names, Cols: names, Cells: make([][]Cell, len(m.Counts))}
	for i, row := range m.Counts {
		h.Cells[i] = make([]Cell, len(row))
		for j, n := range row {
			t := 0.0
			if peak > 0 {
				t = float64(n) / float64(peak)
			}
			c := sequential(t)
			h.Cells[i][j] = Cell{Value: float64(n), Text: fmt.Sprint(n), Background: c.hex(), Foreground: c.foreground()}
		}
	}
	return h
}
