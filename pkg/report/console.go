package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/amruakhi/eda-analysis/pkg/aggregate"
	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/inspect"
)

// Output modes for console tables.
const (
	ModeAuto     = "auto"
	ModeText     = "text"
	ModeMarkdown = "markdown"
)

// Modes lists the accepted output modes.
var Modes = []string{ModeAuto, ModeText, ModeMarkdown}

const topInsights = 10

// Printer writes the console report. Terminals get styled boxed tables; pipes and
// files get markdown.
type Printer struct {
	w      io.Writer
	mode   string
	banner lipgloss.Style
}

// NewPrinter resolves ModeAuto against w and returns a printer.
func NewPrinter(w io.Writer, mode string) *Printer {
	if mode == ModeAuto || mode == "" {
		mode = ModeMarkdown
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			mode = ModeText
		}
	}
	p := &Printer{w: w, mode: mode, banner: lipgloss.NewStyle()}
	if mode == ModeText {
		p.banner = p.banner.Bold(true).Foreground(lipgloss.Color("#E24A33"))
	}
	return p
}

// Mode returns the resolved output mode.
func (p *Printer) Mode() string { return p.mode }

// Banner prints a section heading such as "--- BASIC INFO ---".
func (p *Printer) Banner(title string) {
	_, _ = fmt.Fprintf(p.w, "\n%s\n", p.banner.Render("--- "+strings.ToUpper(title)+" ---"))
}

// Heading prints a subsection label.
func (p *Printer) Heading(s string) {
	_, _ = fmt.Fprintf(p.w, "\n%s\n", s)
}

// Loaded announces a successful load.
func (p *Printer) Loaded(path string, t *data.Table) {
	p.Banner("data loaded successfully")
	_, _ = fmt.Fprintf(p.w, "%s: %d rows, %d columns\n", path, t.Rows(), t.Cols())
}

// Preview prints the first rows of the table.
func (p *Printer) Preview(header []string, rows [][]string) {
	h := make(table.Row, len(header)+1)
	h[0] = ""
	for i, name := range header {
		h[i+1] = name
	}
	body := make([]table.Row, len(rows))
	for i, r := range rows {
		row := make(table.Row, len(r)+1)
		row[0] = i
		for j, v := range r {
			row[j+1] = v
		}
		body[i] = row
	}
	p.table(h, body)
}

// Inspection prints the basic info, missing values, numeric and categorical
// summaries.
func (p *Printer) Inspection(r *inspect.Report) {
	p.Banner("basic info")
	n := r.Info.Rows
	_, _ = fmt.Fprintf(p.w, "RangeIndex: %d entries", n)
	if n > 0 {
		_, _ = fmt.Fprintf(p.w, ", 0 to %d", n-1)
	}
	_, _ = fmt.Fprintf(p.w, "\nData columns (total %d columns):\n", len(r.Info.Columns))
	var rows []table.Row
	kinds := map[data.Kind]int{}
	for i, c := range r.Info.Columns {
		rows = append(rows, table.Row{i, c.Name, fmt.Sprintf("%d non-null", c.NonNull), c.Kind.String()})
		kinds[c.Kind]++
	}
	p.table(table.Row{"#", "Column", "Non-Null Count", "Dtype"}, rows)
	var dtypes []string
	for _, k := range []data.Kind{data.Float, data.Int, data.Object} {
		if kinds[k] > 0 {
			dtypes = append(dtypes, fmt.Sprintf("%s(%d)", k, kinds[k]))
		}
	}
	_, _ = fmt.Fprintf(p.w, "dtypes: %s\n", strings.Join(dtypes, ", "))

	p.Banner("missing values")
	rows = rows[:0]
	for _, m := range r.Missing {
		rows = append(rows, table.Row{m.Column, m.N})
	}
	p.table(table.Row{"Column", "Missing"}, rows)

	p.Banner("numeric summary")
	p.numeric(r.Numeric)

	p.Banner("categorical summary")
	p.categorical(r.Categorical)
}

// numeric prints describe() style: one row per statistic, one column per field.
func (p *Printer) numeric(s []inspect.NumericSummary) {
	if len(s) == 0 {
		_, _ = fmt.Fprintln(p.w, "(no numeric columns)")
		return
	}
	header := table.Row{""}
	for _, c := range s {
		header = append(header, c.Column)
	}
	stat := func(name string, f func(inspect.NumericSummary) float64) table.Row {
		row := table.Row{name}
		for _, c := range s {
			row = append(row, formatFloat(f(c)))
		}
		return row
	}
	p.table(header, []table.Row{
		stat("count", func(c inspect.NumericSummary) float64 { return float64(c.Count) }),
		stat("mean", func(c inspect.NumericSummary) float64 { return c.Mean }),
		stat("std", func(c inspect.NumericSummary) float64 { return c.Std }),
		stat("min", func(c inspect.NumericSummary) float64 { return c.Min }),
		stat("25%", func(c inspect.NumericSummary) float64 { return c.P25 }),
		stat("50%", func(c inspect.NumericSummary) float64 { return c.P50 }),
		stat("75%", func(c inspect.NumericSummary) float64 { return c.P75 }),
		stat("max", func(c inspect.NumericSummary) float64 { return c.Max }),
	})
}

func (p *Printer) categorical(s []inspect.CategoricalSummary) {
	if len(s) == 0 {
		_, _ = fmt.Fprintln(p.w, "(no categorical columns)")
		return
	}
	header := table.Row{""}
	count, unique, top, freq := table.Row{"count"}, table.Row{"unique"}, table.Row{"top"}, table.Row{"freq"}
	for _, c := range s {
		header = append(header, c.Column)
		count = append(count, c.Count)
		unique = append(unique, c.Unique)
		if c.Count == 0 {
			top = append(top, data.MissingLabel)
			freq = append(freq, data.MissingLabel)
			continue
		}
		top = append(top, c.Top)
		freq = append(freq, c.Freq)
	}
	p.table(header, []table.Row{count, unique, top, freq})
}

// Insights prints the top-N frequency tables and grouped means.
func (p *Printer) Insights(s data.Schema, ins *aggregate.Insights) {
	p.Banner("top insights")

	p.Heading("Top 10 Most Common Cuisines:")
	p.counts(s.Cuisines, ins.CuisineCounts.Head(topInsights))

	p.Heading("Top 10 Cities With Most Restaurants:")
	p.counts(s.City, ins.CityCounts.Head(topInsights))

	p.Heading("Average Rating by Price Range:")
	p.means(s.PriceRange, s.Rating, ins.RatingByPrice)

	p.Heading("Average Cost for Two by City:")
	p.means(s.City, s.CostForTwo, ins.CostByCity.Head(topInsights))
}

// Charts lists the chart files written.
func (p *Printer) Charts(paths []string) {
	p.Banner("charts")
	rows := make([]table.Row, len(paths))
	for i, path := range paths {
		rows[i] = table.Row{i + 1, path}
	}
	p.table(table.Row{"#", "File"}, rows)
}

func (p *Printer) counts(key string, c aggregate.Counts) {
	rows := make([]table.Row, len(c))
	for i, e := range c {
		rows[i] = table.Row{e.Key, e.N}
	}
	p.table(table.Row{key, "count"}, rows)
}

func (p *Printer) means(key, value string, m aggregate.Means) {
	rows := make([]table.Row, len(m))
	for i, e := range m {
		rows[i] = table.Row{e.Key, formatFloat(e.Value)}
	}
	p.table(table.Row{key, value}, rows)
}

func (p *Printer) table(header table.Row, rows []table.Row) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(p.w, "(0 rows)")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.AppendHeader(header)
	t.AppendRows(rows)

	if p.mode == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// formatFloat uses six decimals and prints NaN for undefined statistics.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return data.MissingLabel
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
