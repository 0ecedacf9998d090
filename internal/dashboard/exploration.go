package dashboard

import (
	"context"
	"math/rand/v2"
	"strconv"

	"cardiodash/domain/clinical"
	"cardiodash/internal/dataset"
	"cardiodash/internal/errors"
	"cardiodash/internal/resources"
)

// Table is a formatted block of records.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len is the number of records.
func (t Table) Len() int {
	return len(t.Rows)
}

// ExplorationView is the Data Exploration sub-view.
type ExplorationView struct {
	Rows    int
	Cols    int
	Dtypes  []dataset.ColumnType
	Summary []dataset.Summary
	Sample  Table

	Filter     dataset.Filter
	AgeMin     int
	AgeMax     int
	SexOptions []clinical.SexFilter
	Filtered   Table
}

// ExplorationRenderer shows the dataset overview, a random sample and the
// filtered records.
type ExplorationRenderer struct {
	res        resources.Provider
	sampleSize int
	rand       func() *rand.Rand
}

func (r *ExplorationRenderer) Render(_ context.Context, in Input, v *View) error {
	ds, err := r.res.Dataset()
	if err != nil {
		return err
	}
	summary, err := ds.Describe()
	if err != nil {
		return errors.Wrap(err, "failed to describe dataset")
	}

	lo, hi := ds.AgeBounds()
	filter := ds.DefaultFilter()
	if in.Filter != nil {
		filter = dataset.Filter{
			Age: dataset.NewAgeRange(in.Filter.Age.Lo, in.Filter.Age.Hi, lo, hi),
			Sex: in.Filter.Sex,
		}
	}
	if filter.Sex == "" {
		filter.Sex = clinical.SexAll
	}

	rows, cols := ds.Shape()
	v.Exploration = &ExplorationView{
		Rows:       rows,
		Cols:       cols,
		Dtypes:     ds.Dtypes(),
		Summary:    summary,
		Sample:     FormatView(ds, ds.Sample(r.sampleSize, r.rand())),
		Filter:     filter,
		AgeMin:     lo,
		AgeMax:     hi,
		SexOptions: clinical.SexFilters,
		Filtered:   FormatView(ds, ds.Filter(filter)),
	}
	return nil
}

// FormatView renders records as text, integers without a decimal point.
func FormatView(ds *dataset.Dataset, view *dataset.View) Table {
	cols := ds.Columns()
	integral := make([]bool, len(cols))
	for i, name := range cols {
		integral[i] = ds.Dtype(name) == dataset.Int64
	}

	t := Table{Columns: cols, Rows: make([][]string, 0, view.Len())}
	for _, row := range view.Rows() {
		cells := make([]string, len(row))
		for i, value := range row {
			if integral[i] {
				cells[i] = strconv.FormatInt(int64(value), 10)
			} else {
				cells[i] = strconv.FormatFloat(value, 'f', -1, 64)
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}
