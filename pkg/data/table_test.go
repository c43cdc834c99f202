package data

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amruakhi/eda-analysis/pkg/errs"
)

func TestInferKind(t *testing.T) {
	tests := []struct {
		name    string
		cells   []string
		missing []bool
		want    Kind
	}{
		{"empty", nil, nil, Object},
		{"ints", []string{"1", "2", "-3"}, []bool{false, false, false}, Int},
		{"ints with missing become float", []string{"1", "", "3"}, []bool{false, true, false}, Float},
		{"floats", []string{"1", "2.5", "3"}, []bool{false, false, false}, Float},
		{"all missing", []string{"", ""}, []bool{true, true}, Float},
		{"text", []string{"1", "Yes"}, []bool{false, false}, Object},
		{"text after floats", []string{"1.5", "Yes"}, []bool{false, false}, Object},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferKind(tt.cells, tt.missing))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "int64", Int.String())
	assert.Equal(t, "float64", Float.String())
	assert.Equal(t, "object", Object.String())
	assert.True(t, Float.Numeric())
	assert.False(t, Object.Numeric())
}

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := FromRecords(
		[]string{"City", "Votes", "Aggregate rating", "Cuisines"},
		[][]string{
			{"Delhi", "10", "4.5", "North Indian"},
			{"Agra", "3", "", "NA"},
			{"Delhi", "7", "3.9", "Cafe"},
		},
		DefaultNaNValues,
	)
	require.NoError(t, err)
	return tbl
}

func TestTable_Accessors(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, 4, tbl.Cols())
	assert.Equal(t, []string{"Votes", "Aggregate rating"}, tbl.NumericColumns())

	ratings, err := tbl.Floats("Aggregate rating")
	require.NoError(t, err)
	assert.Equal(t, 4.5, ratings[0])
	assert.True(t, math.IsNaN(ratings[1]))

	cuisines, missing, err := tbl.Strings("Cuisines")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, missing)
	assert.Equal(t, "Cafe", cuisines[2])
	assert.Equal(t, "", cuisines[1])

	r, _, err := tbl.Strings("Aggregate rating")
	require.NoError(t, err)
	assert.Equal(t, []string{"4.5", "", "3.9"}, r)
}

func TestTable_ColumnNotFound(t *testing.T) {
	tbl := sampleTable(t)

	_, err := tbl.Floats("aggregate rating")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)

	_, _, err = tbl.Strings("Town")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)

	err = tbl.SetStrings("Town", nil, nil)
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)
}

func TestTable_FloatsOnText(t *testing.T) {
	tbl := sampleTable(t)
	_, err := tbl.Floats("City")
	assert.ErrorIs(t, err, errs.ErrNotNumeric)
}

func TestTable_SubsetAndSet(t *testing.T) {
	tbl := sampleTable(t)

	require.NoError(t, tbl.Subset([]int{0, 2}))
	assert.Equal(t, 2, tbl.Rows())

	require.NoError(t, tbl.SetStrings("Votes", []string{"a", "b"}, []bool{false, false}))
	kind, err := tbl.Kind("Votes")
	require.NoError(t, err)
	assert.Equal(t, Object, kind)

	err = tbl.SetStrings("Votes", []string{"a"}, []bool{false})
	assert.Error(t, err)
}

func TestSchemaMerge(t *testing.T) {
	s := Schema{City: "Town"}.Merge(DefaultSchema())
	assert.Equal(t, "Town", s.City)
	assert.Equal(t, "Cuisines", s.Cuisines)
	assert.Equal(t, "Aggregate rating", s.Rating)
}
