package aggregate

import "github.com/amruakhi/eda-analysis/pkg/data"

// Insights gathers every aggregation of a cleaned table.
type Insights struct {
	CuisineCounts Counts
	CityCounts    Counts
	RatingByPrice Means
	// CostByCity is ordered by descending mean cost.
	CostByCity Means
	Corr       *CorrMatrix
}

// Compute runs all aggregations in report order.
func Compute(t *data.Table, s data.Schema) (*Insights, error) {
	ins, err := Tallies(t, s)
	if err != nil {
		return nil, err
	}
	if err := ins.GroupMeans(t, s); err != nil {
		return nil, err
	}
	return ins, nil
}

// Tallies computes what the charts read: the cuisine and city counts and the
// correlation matrix. The grouped means are left empty.
func Tallies(t *data.Table, s data.Schema) (*Insights, error) {
	var (
		ins Insights
		err error
	)
	if ins.CuisineCounts, err = ValueCounts(t, s.Cuisines); err != nil {
		return nil, err
	}
	if ins.CityCounts, err = ValueCounts(t, s.City); err != nil {
		return nil, err
	}
	if ins.Corr, err = Correlation(t); err != nil {
		return nil, err
	}
	return &ins, nil
}

// GroupMeans fills the mean rating by price range and the mean cost by city.
func (ins *Insights) GroupMeans(t *data.Table, s data.Schema) error {
	byPrice, err := GroupMean(t, s.PriceRange, s.Rating)
	if err != nil {
		return err
	}
	cost, err := GroupMean(t, s.City, s.CostForTwo)
	if err != nil {
		return err
	}
	ins.RatingByPrice = byPrice
	ins.CostByCity = cost.SortDesc()
	return nil
}
