package report

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/amruakhi/eda-analysis/pkg/aggregate"
	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/errs"
	"github.com/amruakhi/eda-analysis/pkg/stats"
)

// Formats lists the file extensions the plot renderer can write.
var Formats = []string{"png", "svg", "pdf", "jpg", "jpeg", "eps", "tif", "tiff"}

// Renderer draws one chart. seq is the 1-based position in the sequence.
type Renderer interface {
	Render(seq int, c Chart) (string, error)
}

// Draw builds and renders each chart in order. The first failure aborts the
// remaining charts; paths of the charts already written are returned with it.
func Draw(ctx context.Context, t *data.Table, ins *aggregate.Insights, seq []Builder, r Renderer) ([]string, error) {
	var paths []string
	for i, b := range seq {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		c, err := b.Build(t, ins)
		if err != nil {
			return paths, err
		}
		if err := c.Validate(); err != nil {
			return paths, err
		}
		path, err := r.Render(i+1, c)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

var (
	barColor   = color.RGBA{R: 0xE2, G: 0x4A, B: 0x33, A: 0xFF}
	lineColor  = color.RGBA{R: 0x34, G: 0x8A, B: 0xBD, A: 0xFF}
	panelColor = color.RGBA{R: 0xE5, G: 0xE5, B: 0xE5, A: 0xFF}
	nanColor   = color.RGBA{R: 0xBB, G: 0xBB, B: 0xBB, A: 0xFF}
)

const kdePoints = 200

// PlotRenderer writes charts as image files named NN_<name>.<format>.
type PlotRenderer struct {
	Dir    string
	Format string
}

// NewPlotRenderer creates the output directory and checks the format.
func NewPlotRenderer(dir, format string) (*PlotRenderer, error) {
	if !slices.Contains(Formats, format) {
		return nil, errs.Render("plot renderer", fmt.Errorf("unsupported image format %q", format))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Render("plot renderer", err)
	}
	return &PlotRenderer{Dir: dir, Format: format}, nil
}

// Path returns the file a chart at position seq is written to.
func (r *PlotRenderer) Path(seq int, c Chart) string {
	return filepath.Join(r.Dir, fmt.Sprintf("%02d_%s.%s", seq, c.Name, r.Format))
}

// Render draws c and saves it.
func (r *PlotRenderer) Render(seq int, c Chart) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	p, err := newPlot(c)
	if err != nil {
		return "", errs.Render(c.Name, err)
	}
	path := r.Path(seq, c)
	if err := p.Save(vg.Length(c.Width)*vg.Inch, vg.Length(c.Height)*vg.Inch, path); err != nil {
		return "", errs.Render(c.Name, err)
	}
	return path, nil
}

func newPlot(c Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.BackgroundColor = panelColor

	if c.Kind != Heatmap {
		grid := plotter.NewGrid()
		grid.Vertical.Color = color.White
		grid.Horizontal.Color = color.White
		p.Add(grid)
	}

	var err error
	switch c.Kind {
	case Histogram:
		err = addHistogram(p, c)
	case Bar, HorizontalBar:
		err = addBars(p, c)
	case BoxPlot:
		err = addBoxes(p, c)
	case Scatter:
		err = addScatter(p, c)
	case Heatmap:
		err = addHeatmap(p, c)
	default:
		err = fmt.Errorf("unknown chart kind %v", c.Kind)
	}
	return p, err
}

// addHistogram draws the bins and, when defined, a Gaussian KDE scaled to counts.
func addHistogram(p *plot.Plot, c Chart) error {
	h, err := plotter.NewHist(plotter.Values(c.Values), c.Bins)
	if err != nil {
		return err
	}
	h.FillColor = barColor
	h.LineStyle.Color = color.White
	p.Add(h)

	if !c.KDE {
		return nil
	}
	xs, density, ok := stats.KDE(c.Values, kdePoints)
	if !ok {
		return nil
	}
	scale := float64(len(c.Values)) * h.Width
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: density[i] * scale}
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(2)
	l.LineStyle.Color = lineColor
	p.Add(l)
	return nil
}

func barWidth(c Chart) vg.Length {
	w := vg.Length(c.Width) * vg.Inch * 0.6 / vg.Length(len(c.Counts))
	return min(w, vg.Points(60))
}

// addBars draws vertical bars in table order, or horizontal bars with the first
// entry on top.
func addBars(p *plot.Plot, c Chart) error {
	values, labels := c.Counts, c.Labels
	if c.Kind == HorizontalBar {
		values, labels = slices.Clone(values), slices.Clone(labels)
		slices.Reverse(values)
		slices.Reverse(labels)
	}
	bars, err := plotter.NewBarChart(plotter.Values(values), barWidth(c))
	if err != nil {
		return err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)

	if c.Kind == HorizontalBar {
		bars.Horizontal = true
		p.NominalY(labels...)
		return nil
	}
	p.NominalX(labels...)
	if len(labels) > 8 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
	}
	return nil
}

func addBoxes(p *plot.Plot, c Chart) error {
	for i, g := range c.Groups {
		b, err := plotter.NewBoxPlot(vg.Points(50), float64(i), plotter.Values(g))
		if err != nil {
			return err
		}
		b.FillColor = lineColor
		p.Add(b)
	}
	p.NominalX(c.Labels...)
	return nil
}

func addScatter(p *plot.Plot, c Chart) error {
	pts := make(plotter.XYs, len(c.X))
	for i := range c.X {
		pts[i] = plotter.XY{X: c.X[i], Y: c.Y[i]}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = lineColor
	s.GlyphStyle.Radius = vg.Points(2)
	p.Add(s)
	return nil
}

// corrGrid lays a correlation matrix out as a heat map grid with the first
// column at the top.
type corrGrid struct{ m *aggregate.CorrMatrix }

func (g corrGrid) Dims() (c, r int)   { return g.m.Len(), g.m.Len() }
func (g corrGrid) Z(c, r int) float64 { return g.m.At(g.m.Len()-1-r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// addHeatmap draws the matrix on a fixed [-1, 1] diverging scale and annotates
// each cell with its coefficient.
func addHeatmap(p *plot.Plot, c Chart) error {
	grid := corrGrid{c.Corr}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	h := plotter.NewHeatMap(grid, cmap.Palette(255))
	h.Min, h.Max = -1, 1
	h.NaN = nanColor

	var cells plotter.XYLabels
	cols, rows := grid.Dims()
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			cells.XYs = append(cells.XYs, plotter.XY{X: grid.X(col), Y: grid.Y(r)})
			cells.Labels = append(cells.Labels, annotation(grid.Z(col, r)))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(h, labels)

	names := c.Corr.Names
	p.NominalX(names...)
	reversed := slices.Clone(names)
	slices.Reverse(reversed)
	p.NominalY(reversed...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	return nil
}

func annotation(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
