// Package charts renders the dashboard figures: SVG charts through go-chart
// and colour grids that templates lay out as HTML tables.
package charts

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"cardiodash/domain/clinical"
	"cardiodash/internal/dataset"
	"cardiodash/internal/errors"
)

// Chart names served under /charts/.
const (
	AgeHistogram = "age_histogram.svg"
	SexPie       = "sex_pie.svg"
)

// Names lists every SVG chart the Renderer can produce.
var Names = []string{AgeHistogram, SexPie}

const histogramBins = 15

var (
	survivalColor = drawing.ColorFromHex("1F77B4")
	deathColor    = drawing.ColorFromHex("FF7F0E")
	pieColors     = []drawing.Color{drawing.ColorFromHex("FF9999"), drawing.ColorFromHex("66B2FF")}
)

// Renderer draws SVG charts and memoizes them per dataset fingerprint.
type Renderer struct {
	cache *ristretto.Cache
}

// NewRenderer creates a renderer with a small bounded cache.
func NewRenderer() (*Renderer, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     16 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chart cache: %w", err)
	}
	return &Renderer{cache: cache}, nil
}

// SVG returns the named chart for ds.
func (r *Renderer) SVG(name string, ds *dataset.Dataset) ([]byte, error) {
	key := fmt.Sprintf("%s:%x", name, ds.Fingerprint())
	if cached, ok := r.cache.Get(key); ok {
		return cached.([]byte), nil
	}

	var (
		svg []byte
		err error
	)
	switch name {
	case AgeHistogram:
		svg, err = renderAgeHistogram(ds)
	case SexPie:
		svg, err = renderSexPie(ds)
	default:
		return nil, errors.NotFound(fmt.Sprintf("chart %q", name))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render %s", name)
	}
	r.cache.Set(key, svg, int64(len(svg)))
	log.Debug().Str("chart", name).Int("bytes", len(svg)).Msg("[Charts] rendered")
	return svg, nil
}

// Close releases the cache goroutines.
func (r *Renderer) Close() {
	r.cache.Close()
}

// HistogramCounts bins ages into histogramBins equal-width bins and counts
// each outcome separately. It returns the bin edges and counts[label][bin].
func HistogramCounts(ds *dataset.Dataset) ([]float64, map[int][]float64) {
	ages, _ := ds.Column(clinical.ColAge)
	targets := ds.Targets()

	lo, hi := floats.Min(ages), floats.Max(ages)
	if hi <= lo {
		hi = lo + 1
	}
	dividers := make([]float64, histogramBins+1)
	floats.Span(dividers, lo, math.Nextafter(hi, math.Inf(1)))

	grouped := map[int][]float64{}
	for i, age := range ages {
		grouped[targets[i]] = append(grouped[targets[i]], age)
	}
	counts := make(map[int][]float64, len(grouped))
	for label, values := range grouped {
		sort.Float64s(values)
		counts[label] = stat.Histogram(nil, dividers, values, nil)
	}
	return dividers, counts
}

func renderAgeHistogram(ds *dataset.Dataset) ([]byte, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	dividers, counts := HistogramCounts(ds)

	labels := make([]int, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	var series []chart.Series
	for _, label := range labels {
		color := survivalColor
		if label == clinical.LabelDeath {
			color = deathColor
		}
		xs, ys := stepOutline(dividers, counts[label])
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s = %d", clinical.TargetColumn, label),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 1.5,
				FillColor:   color.WithAlpha(90),
			},
		})
	}

	graph := chart.Chart{
		Title:      "Heart Failure by Age",
		Width:      720,
		Height:     420,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 10}},
		XAxis:      chart.XAxis{Name: clinical.ColAge},
		YAxis:      chart.YAxis{Name: "Count"},
		Series:     series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stepOutline turns bin counts into the outline of adjacent bars.
func stepOutline(dividers, counts []float64) ([]float64, []float64) {
	xs := []float64{dividers[0]}
	ys := []float64{0}
	for i, c := range counts {
		xs = append(xs, dividers[i], dividers[i+1])
		ys = append(ys, c, c)
	}
	xs = append(xs, dividers[len(dividers)-1])
	ys = append(ys, 0)
	return xs, ys
}

// SexShare is one slice of the sex distribution pie.
type SexShare struct {
	Label   string
	Count   int
	Percent float64
}

// SexDistribution counts records per sex group, largest group first. The
// group label is derived here and never stored on the dataset.
func SexDistribution(ds *dataset.Dataset) []SexShare {
	sexes, _ := ds.Column(clinical.ColSex)
	counts := map[string]int{}
	for _, s := range sexes {
		counts[clinical.SexLabel(s)]++
	}
	shares := make([]SexShare, 0, len(counts))
	for label, n := range counts {
		shares = append(shares, SexShare{Label: label, Count: n, Percent: 100 * float64(n) / float64(len(sexes))})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Label < shares[j].Label
	})
	return shares
}

func renderSexPie(ds *dataset.Dataset) ([]byte, error) {
	shares := SexDistribution(ds)
	if len(shares) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	values := make([]chart.Value, len(shares))
	for i, s := range shares {
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", s.Label, s.Percent),
			Value: float64(s.Count),
			Style: chart.Style{FillColor: pieColors[i%len(pieColors)], StrokeColor: drawing.ColorWhite},
		}
	}
	pie := chart.PieChart{
		Title:  "Sex Distribution",
		Width:  420,
		Height: 420,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
