package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/stats"
)

// Mean is the average of a column over the rows sharing one group key.
// Value is NaN when the group has no non-missing values.
type Mean struct {
	Key   string
	Value float64
	N     int
}

// Means is an ordered group-by result.
type Means []Mean

// Head returns the first n entries.
func (m Means) Head(n int) Means {
	if n < len(m) {
		return m[:n]
	}
	return m
}

// SortDesc returns a copy ordered by descending mean. NaN means go last; equal
// means keep their current (key) order.
func (m Means) SortDesc() Means {
	out := make(Means, len(m))
	copy(out, m)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Value, out[j].Value
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
	return out
}

// GroupMean averages column by the distinct values of by. Rows with a missing key
// are dropped and missing values are skipped. Groups are ordered by ascending key,
// numerically when every key is a number.
func GroupMean(t *data.Table, by, column string) (Means, error) {
	keys, missing, err := t.Strings(by)
	if err != nil {
		return nil, err
	}
	values, err := t.Floats(column)
	if err != nil {
		return nil, fmt.Errorf("mean of %q: %w", column, err)
	}

	groups := make(map[string][]float64)
	var order []string
	for i, k := range keys {
		if missing[i] {
			continue
		}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
			groups[k] = nil
		}
		if !math.IsNaN(values[i]) {
			groups[k] = append(groups[k], values[i])
		}
	}

	sortKeys(order)
	out := make(Means, 0, len(order))
	for _, k := range order {
		vs := groups[k]
		out = append(out, Mean{Key: k, Value: stats.Mean(vs), N: len(vs)})
	}
	return out, nil
}

// sortKeys orders keys numerically when all of them parse as numbers and
// lexically otherwise. A "NaN" key sorts after every number.
func sortKeys(keys []string) {
	nums := make(map[string]float64, len(keys))
	for _, k := range keys {
		f, err := strconv.ParseFloat(k, 64)
		if err != nil {
			sort.Strings(keys)
			return
		}
		nums[k] = f
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := nums[keys[i]], nums[keys[j]]
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a < b
	})
}
