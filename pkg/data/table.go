package data

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/amruakhi/eda-analysis/pkg/errs"
)

// Kind is the inferred dtype of a column.
type Kind int

const (
	Object Kind = iota
	Int
	Float
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int64"
	case Float:
		return "float64"
	default:
		return "object"
	}
}

// Numeric reports whether the column holds numbers.
func (k Kind) Numeric() bool { return k == Int || k == Float }

func (k Kind) seriesType() series.Type {
	switch k {
	case Int:
		return series.Int
	case Float:
		return series.Float
	default:
		return series.String
	}
}

func kindOf(t series.Type) Kind {
	switch t {
	case series.Int:
		return Int
	case series.Float:
		return Float
	default:
		return Object
	}
}

// MissingLabel is how a missing cell reads when it has to be shown or counted.
const MissingLabel = "NaN"

// Table is the in-memory dataset. It is owned by a single run and mutated in place
// only by the cleaning steps.
type Table struct {
	df dataframe.DataFrame
}

// FromRecords builds a table from a header and raw string rows. Cells equal to one
// of nanValues are missing. Column dtypes are inferred per column.
func FromRecords(header []string, rows [][]string, nanValues []string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("no columns")
	}
	nan := make(map[string]struct{}, len(nanValues))
	for _, v := range nanValues {
		nan[v] = struct{}{}
	}

	cols := make([]series.Series, len(header))
	for c, name := range header {
		cells := make([]string, len(rows))
		missing := make([]bool, len(rows))
		for r, row := range rows {
			if c >= len(row) {
				return nil, fmt.Errorf("row %d has %d fields, want %d", r+1, len(row), len(header))
			}
			cells[r] = row[c]
			if _, ok := nan[row[c]]; ok {
				missing[r] = true
			}
		}
		cols[c] = newSeries(name, cells, missing)
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df}, nil
}

// newSeries infers the dtype of cells and builds the gota series for them.
func newSeries(name string, cells []string, missing []bool) series.Series {
	kind := InferKind(cells, missing)
	values := make([]string, len(cells))
	for i, v := range cells {
		if missing[i] {
			values[i] = "NaN"
			continue
		}
		values[i] = v
	}
	return series.New(values, kind.seriesType(), name)
}

// InferKind picks the dtype of a column: int64 when every cell is an integer and none
// is missing, float64 when every present cell is a number (or all cells are missing),
// object otherwise. An empty column is object.
func InferKind(cells []string, missing []bool) Kind {
	if len(cells) == 0 {
		return Object
	}
	allInt, anyMissing := true, false
	for i, v := range cells {
		if missing[i] {
			anyMissing = true
			continue
		}
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if !allInt {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return Object
			}
		}
	}
	if allInt && !anyMissing {
		return Int
	}
	return Float
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.df.Nrow() }

// Cols returns the number of columns.
func (t *Table) Cols() int { return t.df.Ncol() }

// Names returns the column names in file order.
func (t *Table) Names() []string { return t.df.Names() }

// HasColumn reports whether name is a column of the table. Matching is exact.
func (t *Table) HasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func (t *Table) column(op, name string) (series.Series, error) {
	if !t.HasColumn(name) {
		return series.Series{}, errs.ColumnNotFound(op, name)
	}
	s := t.df.Col(name)
	if s.Err != nil {
		return series.Series{}, s.Err
	}
	return s, nil
}

// Kind returns the dtype of a column.
func (t *Table) Kind(name string) (Kind, error) {
	s, err := t.column("kind", name)
	if err != nil {
		return Object, err
	}
	return kindOf(s.Type()), nil
}

// NumericColumns returns the int64 and float64 columns in file order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, name := range t.df.Names() {
		if kindOf(t.df.Col(name).Type()).Numeric() {
			out = append(out, name)
		}
	}
	return out
}

// Strings returns the cells of a column as text together with the missing mask.
// Missing cells read "".
func (t *Table) Strings(name string) ([]string, []bool, error) {
	s, err := t.column("read column", name)
	if err != nil {
		return nil, nil, err
	}
	kind := kindOf(s.Type())
	n := s.Len()
	values := make([]string, n)
	missing := make([]bool, n)
	for i := 0; i < n; i++ {
		e := s.Elem(i)
		if e.IsNA() {
			missing[i] = true
			continue
		}
		if kind == Float {
			values[i] = strconv.FormatFloat(e.Float(), 'f', -1, 64)
		} else {
			values[i] = e.String()
		}
	}
	return values, missing, nil
}

// Floats returns a column as numbers, NaN for missing cells. Object columns are
// parsed cell by cell and fail with errs.ErrNotNumeric on the first non-number.
func (t *Table) Floats(name string) ([]float64, error) {
	s, err := t.column("read numeric column", name)
	if err != nil {
		return nil, err
	}
	if kindOf(s.Type()).Numeric() {
		return s.Float(), nil
	}
	values, missing, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if missing[i] {
			out[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q has value %q", errs.ErrNotNumeric, name, v)
		}
		out[i] = f
	}
	return out, nil
}

// Subset keeps only the given rows, in the given order.
func (t *Table) Subset(rows []int) error {
	df := t.df.Subset(rows)
	if df.Err != nil {
		return df.Err
	}
	t.df = df
	return nil
}

// SetStrings replaces a column with new text cells, re-inferring its dtype.
func (t *Table) SetStrings(name string, values []string, missing []bool) error {
	if !t.HasColumn(name) {
		return errs.ColumnNotFound("set column", name)
	}
	if len(values) != t.Rows() || len(missing) != t.Rows() {
		return fmt.Errorf("column %q: got %d values for %d rows", name, len(values), t.Rows())
	}
	df := t.df.Mutate(newSeries(name, values, missing))
	if df.Err != nil {
		return df.Err
	}
	t.df = df
	return nil
}
