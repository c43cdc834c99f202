// Package aggregate computes the read-only summaries the report prints and plots.
package aggregate

import (
	"sort"

	"github.com/amruakhi/eda-analysis/pkg/data"
)

// Count is the number of rows holding one distinct value.
type Count struct {
	Key string
	N   int
}

// Counts is a frequency table ordered by descending count.
type Counts []Count

// Head returns the first n entries.
func (c Counts) Head(n int) Counts {
	if n < len(c) {
		return c[:n]
	}
	return c
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, e := range c {
		total += e.N
	}
	return total
}

// Keys returns the values in table order.
func (c Counts) Keys() []string {
	out := make([]string, len(c))
	for i, e := range c {
		out[i] = e.Key
	}
	return out
}

// Values returns the counts in table order as floats, ready for plotting.
func (c Counts) Values() []float64 {
	out := make([]float64, len(c))
	for i, e := range c {
		out[i] = float64(e.N)
	}
	return out
}

// ByKey returns a copy ordered by ascending key, numerically when every key is
// a number.
func (c Counts) ByKey() Counts {
	index := make(map[string]Count, len(c))
	keys := make([]string, len(c))
	for i, e := range c {
		index[e.Key] = e
		keys[i] = e.Key
	}
	sortKeys(keys)
	out := make(Counts, len(keys))
	for i, k := range keys {
		out[i] = index[k]
	}
	return out
}

// CountValues tallies each distinct value, ordered by descending count. Values with
// the same count keep the order in which they were first seen.
func CountValues(values []string) Counts {
	index := make(map[string]int)
	var out Counts
	for _, v := range values {
		if i, ok := index[v]; ok {
			out[i].N++
			continue
		}
		index[v] = len(out)
		out = append(out, Count{Key: v, N: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].N > out[j].N })
	return out
}

// ValueCounts tallies a column. Missing cells are counted under data.MissingLabel,
// so the counts always add up to the row count.
func ValueCounts(t *data.Table, column string) (Counts, error) {
	values, missing, err := t.Strings(column)
	if err != nil {
		return nil, err
	}
	for i, m := range missing {
		if m {
			values[i] = data.MissingLabel
		}
	}
	return CountValues(values), nil
}
