package dataset

import (
	"math"
	"math/rand/v2"

	"cardiodash/domain/clinical"
)

// View is a read-only selection of records from a Dataset.
type View struct {
	ds   *Dataset
	rows []int
}

// Len returns the number of selected records.
func (v *View) Len() int {
	return len(v.rows)
}

// Indices returns the positions of the selected records in the Dataset.
func (v *View) Indices() []int {
	return append([]int(nil), v.rows...)
}

// Columns returns the column names of the underlying Dataset.
func (v *View) Columns() []string {
	return v.ds.Columns()
}

// Rows materializes the selected records.
func (v *View) Rows() [][]float64 {
	out := make([][]float64, len(v.rows))
	for i, r := range v.rows {
		out[i] = v.ds.Row(r)
	}
	return out
}

// AgeRange is an inclusive age interval with Lo <= Hi.
type AgeRange struct {
	Lo int
	Hi int
}

// NewAgeRange orders the pair and, when it overlaps [minAge, maxAge], trims
// it to those bounds. A range lying wholly outside the bounds is kept as
// requested so that it matches no record.
func NewAgeRange(lo, hi, minAge, maxAge int) AgeRange {
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi < minAge || lo > maxAge {
		return AgeRange{Lo: lo, Hi: hi}
	}
	return AgeRange{Lo: max(lo, minAge), Hi: min(hi, maxAge)}
}

// Contains reports whether age lies in the closed interval.
func (a AgeRange) Contains(age float64) bool {
	return age >= float64(a.Lo) && age <= float64(a.Hi)
}

// Default slider position.
const (
	DefaultAgeLo = 40
	DefaultAgeHi = 60
)

// Filter is the Data Exploration row predicate.
type Filter struct {
	Age AgeRange
	Sex clinical.SexFilter
}

// matches applies the predicate to record i.
func (f Filter) matches(d *Dataset, i int) bool {
	return f.Age.Contains(d.Value(i, clinical.ColAge)) && f.Sex.Matches(d.Value(i, clinical.ColSex))
}

// Filter selects the records satisfying age in range AND the sex filter.
// The Dataset is not modified.
func (d *Dataset) Filter(f Filter) *View {
	var idx []int
	for i := 0; i < d.rows; i++ {
		if f.matches(d, i) {
			idx = append(idx, i)
		}
	}
	return &View{ds: d, rows: idx}
}

// Sample draws n records without replacement; n is capped at the record count.
func (d *Dataset) Sample(n int, rng *rand.Rand) *View {
	if n > d.rows {
		n = d.rows
	}
	if n < 0 {
		n = 0
	}
	perm := rng.Perm(d.rows)
	return &View{ds: d, rows: perm[:n]}
}

// AgeBounds returns the slider limits: floor of the youngest and ceiling of
// the oldest recorded age.
func (d *Dataset) AgeBounds() (int, int) {
	ages := d.data[d.index[clinical.ColAge]]
	if len(ages) == 0 {
		return 0, 0
	}
	lo, hi := ages[0], ages[0]
	for _, a := range ages[1:] {
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	return int(math.Floor(lo)), int(math.Ceil(hi))
}

// DefaultFilter is the filter applied before the user touches the controls.
func (d *Dataset) DefaultFilter() Filter {
	minAge, maxAge := d.AgeBounds()
	return Filter{
		Age: NewAgeRange(DefaultAgeLo, DefaultAgeHi, minAge, maxAge),
		Sex: clinical.SexAll,
	}
}
