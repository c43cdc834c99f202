// Package report turns a cleaned table and its aggregations into the fixed chart
// sequence, the console summary and the optional workbook export.
package report

import (
	"errors"
	"fmt"

	"github.com/amruakhi/eda-analysis/pkg/aggregate"
	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/errs"
	"github.com/amruakhi/eda-analysis/pkg/stats"
)

// ChartKind selects how a chart is drawn.
type ChartKind int

const (
	Histogram ChartKind = iota
	Bar
	HorizontalBar
	BoxPlot
	Scatter
	Heatmap
)

func (k ChartKind) String() string {
	switch k {
	case Histogram:
		return "histogram"
	case Bar:
		return "bar"
	case HorizontalBar:
		return "horizontal bar"
	case BoxPlot:
		return "box plot"
	case Scatter:
		return "scatter"
	case Heatmap:
		return "heatmap"
	}
	return fmt.Sprintf("ChartKind(%d)", int(k))
}

// Chart is a renderer-independent description of one figure.
type Chart struct {
	Name   string
	Kind   ChartKind
	Title  string
	XLabel string
	YLabel string
	// Width and Height are in inches.
	Width  float64
	Height float64

	// Histogram
	Values []float64
	Bins   int
	KDE    bool

	// Bar and HorizontalBar use Labels with Counts; BoxPlot uses Labels with Groups.
	Labels []string
	Counts []float64
	Groups [][]float64

	// Scatter
	X, Y []float64

	// Heatmap
	Corr *aggregate.CorrMatrix
}

var (
	errNoData  = errors.New("no data to bin")
	errNoBars  = errors.New("no categories to plot")
	errNoBoxes = errors.New("no groups with values")
	errNoPts   = errors.New("no complete observations")
	errNoCorr  = errors.New("no numeric columns to correlate")
)

// Validate reports a RenderError when the chart has nothing to draw.
func (c Chart) Validate() error {
	var err error
	switch c.Kind {
	case Histogram:
		if len(c.Values) == 0 {
			err = errNoData
		}
	case Bar, HorizontalBar:
		if len(c.Counts) == 0 || len(c.Counts) != len(c.Labels) {
			err = errNoBars
		}
	case BoxPlot:
		if len(c.Groups) == 0 || len(c.Groups) != len(c.Labels) {
			err = errNoBoxes
		}
	case Scatter:
		if len(c.X) == 0 || len(c.X) != len(c.Y) {
			err = errNoPts
		}
	case Heatmap:
		if c.Corr == nil || c.Corr.Len() == 0 {
			err = errNoCorr
		}
	default:
		err = fmt.Errorf("unknown chart kind %v", c.Kind)
	}
	if err != nil {
		return errs.Render(c.Name, err)
	}
	return nil
}

// Builder produces one chart from the cleaned table and its insights.
type Builder struct {
	Name  string
	Build func(t *data.Table, ins *aggregate.Insights) (Chart, error)
}

const (
	topCities   = 15
	topCuisines = 20
)

// Sequence returns the chart builders in display order. Builders are lazy so a
// failure while drawing one chart leaves the rest unbuilt.
func Sequence(s data.Schema) []Builder {
	return []Builder{
		{"rating_distribution", func(t *data.Table, _ *aggregate.Insights) (Chart, error) {
			return histogram(t, s.Rating, Chart{
				Name: "rating_distribution", Title: "Rating Distribution",
				XLabel: "Rating", YLabel: "Count", Width: 8, Height: 5, Bins: 20, KDE: true,
			})
		}},
		{"price_range_distribution", func(t *data.Table, _ *aggregate.Insights) (Chart, error) {
			values, missing, err := t.Strings(s.PriceRange)
			if err != nil {
				return Chart{}, err
			}
			counts := aggregate.CountValues(present(values, missing)).ByKey()
			return Chart{
				Name: "price_range_distribution", Kind: Bar, Title: "Price Range Distribution",
				XLabel: s.PriceRange, YLabel: "count", Width: 7, Height: 4,
				Labels: counts.Keys(), Counts: counts.Values(),
			}, nil
		}},
		{"votes_distribution", func(t *data.Table, _ *aggregate.Insights) (Chart, error) {
			return histogram(t, s.Votes, Chart{
				Name: "votes_distribution", Title: "Votes Distribution",
				XLabel: "Votes", YLabel: "Count", Width: 8, Height: 5, Bins: 40, KDE: true,
			})
		}},
		{"online_delivery_vs_rating", func(t *data.Table, _ *aggregate.Insights) (Chart, error) {
			return boxPlot(t, s.OnlineDelivery, s.Rating, Chart{
				Name: "online_delivery_vs_rating", Kind: BoxPlot, Title: "Online Delivery vs Rating",
				XLabel: s.OnlineDelivery, YLabel: s.Rating, Width: 8, Height: 5,
			})
		}},
		{"top_cities", func(_ *data.Table, ins *aggregate.Insights) (Chart, error) {
			top := ins.CityCounts.Head(topCities)
			return Chart{
				Name: "top_cities", Kind: Bar, Title: "Top 15 Cities With Most Restaurants",
				XLabel: "City", YLabel: "Count", Width: 12, Height: 6,
				Labels: top.Keys(), Counts: top.Values(),
			}, nil
		}},
		{"top_cuisines", func(_ *data.Table, ins *aggregate.Insights) (Chart, error) {
			top := ins.CuisineCounts.Head(topCuisines)
			return Chart{
				Name: "top_cuisines", Kind: HorizontalBar, Title: "Top 20 Most Common Cuisines",
				XLabel: "Count", YLabel: "Cuisine", Width: 12, Height: 6,
				Labels: top.Keys(), Counts: top.Values(),
			}, nil
		}},
		{"cost_vs_rating", func(t *data.Table, _ *aggregate.Insights) (Chart, error) {
			return scatter(t, s.CostForTwo, s.Rating, Chart{
				Name: "cost_vs_rating", Kind: Scatter, Title: "Cost for Two vs Ratings",
				XLabel: s.CostForTwo, YLabel: s.Rating, Width: 8, Height: 5,
			})
		}},
		{"correlation_heatmap", func(_ *data.Table, ins *aggregate.Insights) (Chart, error) {
			return Chart{
				Name: "correlation_heatmap", Kind: Heatmap, Title: "Correlation Heatmap",
				Width: 10, Height: 7, Corr: ins.Corr,
			}, nil
		}},
	}
}

// numeric reads a column as floats. Text in a numeric chart is a render failure.
func numeric(t *data.Table, op, column string) ([]float64, error) {
	v, err := t.Floats(column)
	if errors.Is(err, errs.ErrNotNumeric) {
		return nil, errs.Render(op, err)
	}
	return v, err
}

func histogram(t *data.Table, column string, c Chart) (Chart, error) {
	v, err := numeric(t, c.Name, column)
	if err != nil {
		return Chart{}, err
	}
	c.Kind = Histogram
	c.Values = stats.Finite(v)
	return c, nil
}

// boxPlot groups values by key in first-seen order. Rows with a missing key and
// groups left without values are dropped.
func boxPlot(t *data.Table, by, column string, c Chart) (Chart, error) {
	keys, missing, err := t.Strings(by)
	if err != nil {
		return Chart{}, err
	}
	v, err := numeric(t, c.Name, column)
	if err != nil {
		return Chart{}, err
	}
	index := make(map[string]int)
	var (
		labels []string
		groups [][]float64
	)
	for i, k := range keys {
		if missing[i] {
			continue
		}
		g, ok := index[k]
		if !ok {
			g = len(labels)
			index[k] = g
			labels = append(labels, k)
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], v[i])
	}
	for i, g := range groups {
		if g = stats.Finite(g); len(g) > 0 {
			c.Labels = append(c.Labels, labels[i])
			c.Groups = append(c.Groups, g)
		}
	}
	return c, nil
}

func scatter(t *data.Table, xcol, ycol string, c Chart) (Chart, error) {
	x, err := numeric(t, c.Name, xcol)
	if err != nil {
		return Chart{}, err
	}
	y, err := numeric(t, c.Name, ycol)
	if err != nil {
		return Chart{}, err
	}
	for i := range x {
		if stats.IsFinite(x[i]) && stats.IsFinite(y[i]) {
			c.X = append(c.X, x[i])
			c.Y = append(c.Y, y[i])
		}
	}
	return c, nil
}

func present(values []string, missing []bool) []string {
	out := make([]string, 0, len(values))
	for i, v := range values {
		if !missing[i] {
			out = append(out, v)
		}
	}
	return out
}
