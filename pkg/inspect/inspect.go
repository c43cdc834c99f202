// Package inspect describes a loaded table: shape, dtypes, missing values and
// summary statistics. Nothing here modifies the table.
package inspect

import (
	"github.com/amruakhi/eda-analysis/pkg/aggregate"
	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/dataprep"
	"github.com/amruakhi/eda-analysis/pkg/stats"
)

// ColumnInfo is one line of the basic info block.
type ColumnInfo struct {
	Name    string
	NonNull int
	Kind    data.Kind
}

// Info is the shape of the table and the dtype of each column.
type Info struct {
	Rows    int
	Columns []ColumnInfo
}

// MissingCount is the number of missing cells in one column.
type MissingCount struct {
	Column string
	N      int
}

// NumericSummary describes one numeric column.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	P50    float64
	P75    float64
	Max    float64
}

// CategoricalSummary describes one object column. Top is empty and Freq zero when
// the column has no values.
type CategoricalSummary struct {
	Column string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// Report is the full inspection of a table.
type Report struct {
	Info        Info
	Missing     []MissingCount
	Numeric     []NumericSummary
	Categorical []CategoricalSummary
}

// Inspect builds the report for t.
func Inspect(t *data.Table) (*Report, error) {
	r := &Report{Info: Info{Rows: t.Rows()}}
	for _, name := range t.Names() {
		kind, err := t.Kind(name)
		if err != nil {
			return nil, err
		}
		missing, err := dataprep.MissingCount(t, name)
		if err != nil {
			return nil, err
		}
		r.Info.Columns = append(r.Info.Columns, ColumnInfo{Name: name, NonNull: t.Rows() - missing, Kind: kind})
		r.Missing = append(r.Missing, MissingCount{Column: name, N: missing})

		if kind.Numeric() {
			s, err := DescribeNumeric(t, name)
			if err != nil {
				return nil, err
			}
			r.Numeric = append(r.Numeric, s)
			continue
		}
		s, err := DescribeCategorical(t, name)
		if err != nil {
			return nil, err
		}
		r.Categorical = append(r.Categorical, s)
	}
	return r, nil
}

// DescribeNumeric computes count, mean, sample std, min, quartiles and max over
// the non-missing values of a column.
func DescribeNumeric(t *data.Table, column string) (NumericSummary, error) {
	values, err := t.Floats(column)
	if err != nil {
		return NumericSummary{}, err
	}
	x := stats.Finite(values)
	min, max := stats.MinMax(x)
	return NumericSummary{
		Column: column,
		Count:  len(x),
		Mean:   stats.Mean(x),
		Std:    stats.Std(x),
		Min:    min,
		P25:    stats.Percentile(x, 25),
		P50:    stats.Percentile(x, 50),
		P75:    stats.Percentile(x, 75),
		Max:    max,
	}, nil
}

// DescribeCategorical computes count, number of distinct values, the most frequent
// value and its frequency over the non-missing cells of a column. Ties for the most
// frequent value go to the one seen first.
func DescribeCategorical(t *data.Table, column string) (CategoricalSummary, error) {
	values, missing, err := t.Strings(column)
	if err != nil {
		return CategoricalSummary{}, err
	}
	present := make([]string, 0, len(values))
	for i, v := range values {
		if !missing[i] {
			present = append(present, v)
		}
	}
	counts := aggregate.CountValues(present)
	s := CategoricalSummary{Column: column, Count: len(present), Unique: len(counts)}
	if len(counts) > 0 {
		s.Top, s.Freq = counts[0].Key, counts[0].N
	}
	return s, nil
}

// Preview returns the first n rows as text, missing cells shown as data.MissingLabel.
func Preview(t *data.Table, n int) ([][]string, error) {
	n = min(n, t.Rows())
	if n <= 0 {
		return nil, nil
	}
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = make([]string, t.Cols())
	}
	for c, name := range t.Names() {
		values, missing, err := t.Strings(name)
		if err != nil {
			return nil, err
		}
		for r := 0; r < n; r++ {
			if missing[r] {
				rows[r][c] = data.MissingLabel
			} else {
				rows[r][c] = values[r]
			}
		}
	}
	return rows, nil
}
