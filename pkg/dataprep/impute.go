package dataprep

import "github.com/amruakhi/eda-analysis/pkg/data"

// ImputeConstant replaces missing cells of a column with a fixed constant and
// returns how many cells were filled. The column dtype is re-inferred, so text
// filled into a numeric column turns it into an object column.
func ImputeConstant(t *data.Table, column, constant string) (int, error) {
	values, missing, err := t.Strings(column)
	if err != nil {
		return 0, err
	}
	filled := 0
	for i, m := range missing {
		if m {
			values[i] = constant
			missing[i] = false
			filled++
		}
	}
	if filled == 0 {
		return 0, nil
	}
	return filled, t.SetStrings(column, values, missing)
}

// MissingCount returns the number of missing cells in a column.
func MissingCount(t *data.Table, column string) (int, error) {
	_, missing, err := t.Strings(column)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range missing {
		if m {
			n++
		}
	}
	return n, nil
}
