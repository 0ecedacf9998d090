package dataset

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"
)

// Summary holds descriptive statistics for one column.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe computes summary statistics for every column.
func (d *Dataset) Describe() ([]Summary, error) {
	out := make([]Summary, 0, len(d.columns))
	for i, name := range d.columns {
		s, err := summarize(name, d.data[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func summarize(name string, data []float64) (Summary, error) {
	s := Summary{Column: name, Count: len(data)}
	if len(data) == 0 {
		return s, nil
	}
	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if len(data) > 1 {
		if s.Std, err = stats.StandardDeviationSample(data); err != nil {
			return s, err
		}
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	sorted := slices.Sorted(slices.Values(data))
	s.Q25 = linearQuantile(sorted, 0.25)
	s.Q75 = linearQuantile(sorted, 0.75)
	return s, nil
}

// linearQuantile interpolates between the two order statistics around
// position p*(n-1), the rule dataframe describe() tables use.
func linearQuantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
