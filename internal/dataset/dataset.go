// Package dataset holds the clinical records table. A Dataset is immutable
// once built: every query returns copies or index views, never a mutated table.
package dataset

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"cardiodash/adapters/tabular"
	"cardiodash/domain/clinical"
	"cardiodash/internal/errors"
)

// Dtype is the inferred storage type of a column.
type Dtype string

const (
	Int64   Dtype = "Int64"
	Float64 Dtype = "Float64"
)

// ColumnType pairs a column name with its dtype.
type ColumnType struct {
	Name  string
	Dtype Dtype
}

// Dataset is an immutable, column-major table of clinical records.
type Dataset struct {
	columns     []string
	index       map[string]int
	data        [][]float64 // data[col][row]
	dtypes      []Dtype
	rows        int
	fingerprint uint64
}

// New builds a Dataset from row-major values. Every column of the clinical
// schema must be present; extra columns are kept.
func New(columns []string, rows [][]float64) (*Dataset, error) {
	d := &Dataset{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		data:    make([][]float64, len(columns)),
		dtypes:  make([]Dtype, len(columns)),
		rows:    len(rows),
	}
	for i, name := range columns {
		if _, dup := d.index[name]; dup {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate column %q", name))
		}
		d.index[name] = i
		d.data[i] = make([]float64, len(rows))
	}
	for _, required := range clinical.Columns() {
		if _, ok := d.index[required]; !ok {
			return nil, errors.InvalidInput(fmt.Sprintf("missing column %q", required))
		}
	}
	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d has %d values, want %d", r, len(row), len(columns)))
		}
		for c, v := range row {
			d.data[c][r] = v
		}
	}
	for c := range d.data {
		d.dtypes[c] = inferDtype(d.data[c])
	}
	d.fingerprint = contentHash(d.columns, d.data)
	return d, nil
}

// contentHash digests column names and cell values, so equal tables share
// a fingerprint and different ones do not.
func contentHash(columns []string, data [][]float64) uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 8)
	for c, name := range columns {
		_, _ = h.WriteString(name)
		_, _ = h.Write([]byte{0})
		for _, v := range data[c] {
			buf = binary.LittleEndian.AppendUint64(buf[:0], math.Float64bits(v))
			_, _ = h.Write(buf)
		}
	}
	return h.Sum64()
}

// Load reads a CSV or XLSX clinical records file.
func Load(path string) (*Dataset, error) {
	table, err := tabular.NewReader(path).Read()
	if err != nil {
		return nil, errors.ResourceLoad("dataset", err)
	}

	rows := make([][]float64, len(table.Records))
	for r, record := range table.Records {
		row := make([]float64, len(record))
		for c, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.ResourceLoad("dataset", fmt.Errorf("row %d column %q: %w", r+1, table.Headers[c], err))
			}
			row[c] = v
		}
		rows[r] = row
	}

	d, err := New(table.Headers, rows)
	if err != nil {
		return nil, errors.ResourceLoad("dataset", err)
	}
	d.fingerprint = table.Checksum

	log.Info().Str("path", path).Int("rows", d.rows).Int("columns", len(d.columns)).Msg("[Dataset] loaded")
	return d, nil
}

func inferDtype(values []float64) Dtype {
	for _, v := range values {
		if v != math.Trunc(v) {
			return Float64
		}
	}
	return Int64
}

// Shape returns (rows, columns).
func (d *Dataset) Shape() (int, int) {
	return d.rows, len(d.columns)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return d.rows
}

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Dtypes lists every column with its inferred type.
func (d *Dataset) Dtypes() []ColumnType {
	out := make([]ColumnType, len(d.columns))
	for i, name := range d.columns {
		out[i] = ColumnType{Name: name, Dtype: d.dtypes[i]}
	}
	return out
}

// Dtype returns the inferred type of a column.
func (d *Dataset) Dtype(name string) Dtype {
	if i, ok := d.index[name]; ok {
		return d.dtypes[i]
	}
	return ""
}

// Fingerprint identifies the table: the source file checksum for loaded
// datasets, a digest of the values otherwise.
func (d *Dataset) Fingerprint() uint64 {
	return d.fingerprint
}

// Value returns one cell. It panics on an unknown column, like an index out of range.
func (d *Dataset) Value(row int, column string) float64 {
	return d.data[d.index[column]][row]
}

// Row returns a copy of one record in column order.
func (d *Dataset) Row(i int) []float64 {
	row := make([]float64, len(d.columns))
	for c := range d.data {
		row[c] = d.data[c][i]
	}
	return row
}

// Column returns a copy of a column.
func (d *Dataset) Column(name string) ([]float64, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), d.data[i]...), true
}

// Features returns one feature vector per record in clinical.FeatureColumns order.
func (d *Dataset) Features() [][]float64 {
	cols := make([]int, len(clinical.FeatureColumns))
	for i, name := range clinical.FeatureColumns {
		cols[i] = d.index[name]
	}
	out := make([][]float64, d.rows)
	for r := range out {
		vec := make([]float64, len(cols))
		for i, c := range cols {
			vec[i] = d.data[c][r]
		}
		out[r] = vec
	}
	return out
}

// Targets returns the outcome label of every record.
func (d *Dataset) Targets() []int {
	col := d.data[d.index[clinical.TargetColumn]]
	out := make([]int, len(col))
	for i, v := range col {
		out[i] = int(v)
	}
	return out
}

// NumericColumns lists columns usable for correlation. Every stored column
// is numeric; the method exists so derived display groupings stay out.
func (d *Dataset) NumericColumns() []string {
	return d.Columns()
}

// All returns a view over every record.
func (d *Dataset) All() *View {
	idx := make([]int, d.rows)
	for i := range idx {
		idx[i] = i
	}
	return &View{ds: d, rows: idx}
}
