package aggregate

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/errs"
)

func table(t *testing.T, header []string, rows ...[]string) *data.Table {
	t.Helper()
	tbl, err := data.FromRecords(header, rows, data.DefaultNaNValues)
	require.NoError(t, err)
	return tbl
}

func TestValueCounts_TopCity(t *testing.T) {
	tbl := table(t, []string{"City"},
		[]string{"A"}, []string{"A"}, []string{"B"}, []string{"C"}, []string{"A"})

	got, err := ValueCounts(tbl, "City")
	require.NoError(t, err)
	assert.Equal(t, Counts{{"A", 3}, {"B", 1}, {"C", 1}}, got)
	assert.Equal(t, tbl.Rows(), got.Total())
}

func TestCountValues_TiesKeepFirstSeenOrder(t *testing.T) {
	got := CountValues([]string{"z", "y", "x", "y", "z", "w"})
	assert.Equal(t, []string{"z", "y", "x", "w"}, got.Keys())
	assert.Equal(t, []float64{2, 2, 1, 1}, got.Values())
}

func TestValueCounts_MissingCountedOnce(t *testing.T) {
	tbl := table(t, []string{"City", "n"},
		[]string{"A", "1"}, []string{"", "2"}, []string{"B", "3"}, []string{"", "4"})

	got, err := ValueCounts(tbl, "City")
	require.NoError(t, err)
	assert.Equal(t, Counts{{data.MissingLabel, 2}, {"A", 1}, {"B", 1}}, got)
	assert.Equal(t, 4, got.Total())
}

func TestCountsHead(t *testing.T) {
	c := Counts{{"a", 3}, {"b", 2}, {"c", 1}}
	assert.Equal(t, Counts{{"a", 3}, {"b", 2}}, c.Head(2))
	assert.Equal(t, c, c.Head(10))
}

func TestCountsByKey(t *testing.T) {
	c := CountValues([]string{"2", "10", "2", "1", "10", "10"})
	assert.Equal(t, []string{"10", "2", "1"}, c.Keys())
	assert.Equal(t, Counts{{"1", 1}, {"2", 2}, {"10", 3}}, c.ByKey())

	words := Counts{{"b", 1}, {"a", 2}}
	assert.Equal(t, []string{"a", "b"}, words.ByKey().Keys())

	withNaN := CountValues([]string{"3", "NaN", "1", "NaN", "2"})
	assert.Equal(t, []string{"1", "2", "3", "NaN"}, withNaN.ByKey().Keys())
}

func TestGroupMean_PriceRange(t *testing.T) {
	tbl := table(t, []string{"Price range", "Aggregate rating"},
		[]string{"2", "4.0"},
		[]string{"1", "3.0"},
		[]string{"1", "3.5"},
		[]string{"2", "5.0"},
		[]string{"1", "2.5"},
		[]string{"2", ""},
	)

	got, err := GroupMean(tbl, "Price range", "Aggregate rating")
	require.NoError(t, err)

	want := Means{
		{Key: "1", Value: 3.0, N: 3},
		{Key: "2", Value: 4.5, N: 2},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("GroupMean mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupMean_NumericKeyOrder(t *testing.T) {
	tbl := table(t, []string{"k", "v"},
		[]string{"10", "1"}, []string{"9", "2"}, []string{"2.5", "3"})
	got, err := GroupMean(tbl, "k", "v")
	require.NoError(t, err)
	assert.Equal(t, []string{"2.5", "9", "10"}, keys(got))
}

func TestGroupMean_LexicalKeyOrderAndMissingKey(t *testing.T) {
	tbl := table(t, []string{"City", "Cost"},
		[]string{"Pune", "300"}, []string{"", "100"}, []string{"Agra", "500"}, []string{"Delhi", ""})
	got, err := GroupMean(tbl, "City", "Cost")
	require.NoError(t, err)
	assert.Equal(t, []string{"Agra", "Delhi", "Pune"}, keys(got))
	assert.True(t, math.IsNaN(got[1].Value))
	assert.Zero(t, got[1].N)
}

func TestGroupMean_Errors(t *testing.T) {
	tbl := table(t, []string{"City", "Cost"}, []string{"Pune", "cheap"})

	_, err := GroupMean(tbl, "Town", "Cost")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)

	_, err = GroupMean(tbl, "City", "Price")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)

	_, err = GroupMean(tbl, "City", "Cost")
	assert.ErrorIs(t, err, errs.ErrNotNumeric)
}

func TestMeansSortDesc(t *testing.T) {
	m := Means{
		{Key: "A", Value: 100},
		{Key: "B", Value: math.NaN()},
		{Key: "C", Value: 300},
		{Key: "D", Value: 100},
	}
	got := m.SortDesc()
	assert.Equal(t, []string{"C", "A", "D", "B"}, keys(got))
	// input order is untouched
	assert.Equal(t, []string{"A", "B", "C", "D"}, keys(m))
	assert.Equal(t, []string{"C", "A"}, keys(got.Head(2)))
}

func TestCorrelation_SymmetricUnitDiagonal(t *testing.T) {
	tbl := table(t, []string{"x", "y", "z", "label", "flat"},
		[]string{"1", "2", "9", "a", "5"},
		[]string{"2", "4.5", "7", "b", "5"},
		[]string{"3", "5", "8", "c", "5"},
		[]string{"4", "9", "1", "d", "5"},
	)

	corr, err := Correlation(tbl)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y", "z", "flat"}, corr.Names)

	for i := 0; i < corr.Len(); i++ {
		for j := 0; j < corr.Len(); j++ {
			a, b := corr.At(i, j), corr.At(j, i)
			if math.IsNaN(a) {
				assert.True(t, math.IsNaN(b))
				continue
			}
			assert.Equal(t, a, b, "(%d,%d)", i, j)
		}
	}
	for _, name := range []string{"x", "y", "z"} {
		v, ok := corr.Get(name, name)
		require.True(t, ok)
		assert.Equal(t, 1.0, v, name)
	}
	flat, _ := corr.Get("flat", "flat")
	assert.True(t, math.IsNaN(flat))

	xy, _ := corr.Get("x", "y")
	assert.InDelta(t, 0.9579, xy, 1e-3)

	_, ok := corr.Get("x", "label")
	assert.False(t, ok)
}

func TestCorrelation_NoNumericColumns(t *testing.T) {
	tbl := table(t, []string{"City"})
	corr, err := Correlation(tbl)
	require.NoError(t, err)
	assert.Zero(t, corr.Len())
}

func TestCompute_HeaderOnly(t *testing.T) {
	s := data.DefaultSchema()
	tbl := table(t, []string{s.Rating, s.Votes, s.PriceRange, s.OnlineDelivery, s.City, s.Cuisines, s.CostForTwo})

	ins, err := Compute(tbl, s)
	require.NoError(t, err)
	assert.Empty(t, ins.RatingByPrice)
	assert.Empty(t, ins.CostByCity)
	assert.Empty(t, ins.CityCounts)
	assert.Zero(t, ins.Corr.Len())
}

func TestTallies_DefersGroupMeans(t *testing.T) {
	s := data.DefaultSchema()
	tbl := table(t, []string{s.Rating, s.PriceRange, s.City, s.Cuisines, s.CostForTwo},
		[]string{"good", "1", "Agra", "Cafe", "300"},
		[]string{"bad", "2", "Pune", "Bakery", "200"},
	)

	ins, err := Tallies(tbl, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Agra", "Pune"}, ins.CityCounts.Keys())
	assert.Empty(t, ins.RatingByPrice)
	assert.Empty(t, ins.CostByCity)

	err = ins.GroupMeans(tbl, s)
	assert.ErrorIs(t, err, errs.ErrNotNumeric)
}

func TestCompute_MissingColumn(t *testing.T) {
	s := data.DefaultSchema()
	tbl := table(t, []string{s.Cuisines}, []string{"Cafe"})
	_, err := Compute(tbl, s)
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)
}

func keys(m Means) []string {
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.Key
	}
	return out
}
