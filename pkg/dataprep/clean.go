package dataprep

import (
	"fmt"
	"strings"

	"github.com/amruakhi/eda-analysis/pkg/data"
)

// UnknownCuisine replaces missing cuisines.
const UnknownCuisine = "Unknown"

// CleanStats summarises what a cleaning pass changed.
type CleanStats struct {
	RowsBefore int
	RowsAfter  int
	Filled     int
}

// Duplicates returns the number of rows dropped.
func (s CleanStats) Duplicates() int { return s.RowsBefore - s.RowsAfter }

// Clean drops duplicate rows, then fills missing cells of the cuisines column with
// UnknownCuisine. A fill can turn two rows into duplicates, so duplicates are
// dropped again after it. The table is modified in place; a second pass changes
// nothing.
func Clean(t *data.Table, cuisines string) (CleanStats, error) {
	stats := CleanStats{RowsBefore: t.Rows()}
	if _, err := DropDuplicates(t); err != nil {
		return stats, fmt.Errorf("drop duplicates: %w", err)
	}
	stats.RowsAfter = t.Rows()

	filled, err := ImputeConstant(t, cuisines, UnknownCuisine)
	if err != nil {
		return stats, fmt.Errorf("fill %s: %w", cuisines, err)
	}
	stats.Filled = filled
	if filled > 0 {
		if _, err := DropDuplicates(t); err != nil {
			return stats, fmt.Errorf("drop duplicates after fill: %w", err)
		}
		stats.RowsAfter = t.Rows()
	}
	return stats, nil
}

// DropDuplicates removes rows equal to an earlier row over all columns, keeping
// the first occurrence. Missing cells compare equal to each other. It returns the
// number of rows removed.
func DropDuplicates(t *data.Table) (int, error) {
	rows := t.Rows()
	if rows == 0 {
		return 0, nil
	}

	names := t.Names()
	values := make([][]string, len(names))
	missing := make([][]bool, len(names))
	for c, name := range names {
		v, m, err := t.Strings(name)
		if err != nil {
			return 0, err
		}
		values[c], missing[c] = v, m
	}

	seen := make(map[string]struct{}, rows)
	keep := make([]int, 0, rows)
	var key strings.Builder
	for r := 0; r < rows; r++ {
		key.Reset()
		for c := range names {
			// a leading marker keeps "" apart from a missing cell
			if missing[c][r] {
				key.WriteByte(0)
			} else {
				key.WriteByte(1)
				key.WriteString(values[c][r])
			}
			key.WriteByte(0x1f)
		}
		k := key.String()
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keep = append(keep, r)
		}
	}

	if len(keep) == rows {
		return 0, nil
	}
	if err := t.Subset(keep); err != nil {
		return 0, err
	}
	return rows - len(keep), nil
}
