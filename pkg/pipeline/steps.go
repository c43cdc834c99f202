package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/amruakhi/eda-analysis/pkg/aggregate"
	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/dataprep"
	"github.com/amruakhi/eda-analysis/pkg/inspect"
	"github.com/amruakhi/eda-analysis/pkg/report"
)

// Options configures the standard step list.
type Options struct {
	// Input is the CSV file to load.
	Input string
	Load  data.Options
	// Preview is the number of leading rows printed after loading. Zero skips it.
	Preview int
	// Printer receives the console report. Nil prints nothing.
	Printer *report.Printer
	// Renderer draws the charts. Required by New.
	Renderer report.Renderer
	// Workbook, when set, is the .xlsx file the tables are exported to.
	Workbook string
	// Logger is optional; nil discards.
	Logger *slog.Logger
}

func (o Options) printer() *report.Printer {
	if o.Printer == nil {
		return report.NewPrinter(io.Discard, report.ModeMarkdown)
	}
	return o.Printer
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// New returns the full report: load, inspect, clean, aggregate, charts, insights
// and, when configured, the workbook export.
func New(o Options) *Pipeline {
	p, log := o.printer(), o.logger()
	steps := []Step{
		LoadStep{Path: o.Input, Options: o.Load, Printer: p, Logger: log},
		InspectStep{Preview: o.Preview, Printer: p},
		CleanStep{Logger: log},
		AggregateStep{},
		ChartStep{Renderer: o.Renderer, Printer: p, Logger: log},
		InsightsStep{Printer: p},
	}
	if o.Workbook != "" {
		steps = append(steps, ExportStep{Path: o.Workbook, Logger: log})
	}
	return NewPipeline(steps...).WithLogger(log)
}

// NewInspect returns the load and inspect steps only.
func NewInspect(o Options) *Pipeline {
	p, log := o.printer(), o.logger()
	return NewPipeline(
		LoadStep{Path: o.Input, Options: o.Load, Printer: p, Logger: log},
		InspectStep{Preview: o.Preview, Printer: p},
	).WithLogger(log)
}

var errNoTable = errors.New("no table loaded")

// LoadStep reads the CSV file into the run.
type LoadStep struct {
	Path    string
	Options data.Options
	Printer *report.Printer
	Logger  *slog.Logger
}

func (LoadStep) Name() string { return "load" }

func (s LoadStep) Run(_ context.Context, r *Run) error {
	t, err := data.Load(s.Path, s.Options)
	if err != nil {
		return err
	}
	r.Table = t
	s.Logger.Info("data loaded", "path", s.Path, "rows", t.Rows(), "columns", t.Cols())
	s.Printer.Loaded(s.Path, t)
	return nil
}

// InspectStep prints the preview and the inspection report.
type InspectStep struct {
	Preview int
	Printer *report.Printer
}

func (InspectStep) Name() string { return "inspect" }

func (s InspectStep) Run(_ context.Context, r *Run) error {
	if r.Table == nil {
		return errNoTable
	}
	if s.Preview > 0 {
		rows, err := inspect.Preview(r.Table, s.Preview)
		if err != nil {
			return err
		}
		s.Printer.Preview(r.Table.Names(), rows)
	}
	rep, err := inspect.Inspect(r.Table)
	if err != nil {
		return err
	}
	r.Report = rep
	s.Printer.Inspection(rep)
	return nil
}

// CleanStep drops duplicate rows and fills missing cuisines.
type CleanStep struct {
	Logger *slog.Logger
}

func (CleanStep) Name() string { return "clean" }

func (s CleanStep) Run(_ context.Context, r *Run) error {
	if r.Table == nil {
		return errNoTable
	}
	stats, err := dataprep.Clean(r.Table, r.Schema.Cuisines)
	if err != nil {
		return err
	}
	r.Clean = stats
	s.Logger.Info("data cleaned",
		"rows", stats.RowsAfter,
		"duplicates_dropped", stats.Duplicates(),
		"cuisines_filled", stats.Filled)
	return nil
}

// AggregateStep computes the counts and correlations the charts read. Grouped
// means wait for InsightsStep so that a bad numeric column fails in its chart
// first.
type AggregateStep struct{}

func (AggregateStep) Name() string { return "aggregate" }

func (AggregateStep) Run(_ context.Context, r *Run) error {
	if r.Table == nil {
		return errNoTable
	}
	ins, err := aggregate.Tallies(r.Table, r.Schema)
	if err != nil {
		return err
	}
	r.Insights = ins
	return nil
}

// ChartStep renders the chart sequence.
type ChartStep struct {
	Renderer report.Renderer
	Printer  *report.Printer
	Logger   *slog.Logger
}

func (ChartStep) Name() string { return "charts" }

func (s ChartStep) Run(ctx context.Context, r *Run) error {
	if r.Table == nil || r.Insights == nil {
		return errNoTable
	}
	paths, err := report.Draw(ctx, r.Table, r.Insights, report.Sequence(r.Schema), s.Renderer)
	r.Charts = paths
	for _, p := range paths {
		s.Logger.Debug("chart written", "path", p)
	}
	if err != nil {
		return err
	}
	s.Logger.Info("charts rendered", "count", len(paths))
	s.Printer.Charts(paths)
	return nil
}

// InsightsStep computes the grouped means and prints the top-N tables with them.
type InsightsStep struct {
	Printer *report.Printer
}

func (InsightsStep) Name() string { return "insights" }

func (s InsightsStep) Run(_ context.Context, r *Run) error {
	if r.Table == nil || r.Insights == nil {
		return errNoTable
	}
	if err := r.Insights.GroupMeans(r.Table, r.Schema); err != nil {
		return err
	}
	s.Printer.Insights(r.Schema, r.Insights)
	return nil
}

// ExportStep writes the tables to a workbook.
type ExportStep struct {
	Path   string
	Logger *slog.Logger
}

func (ExportStep) Name() string { return "export" }

func (s ExportStep) Run(_ context.Context, r *Run) error {
	if r.Report == nil || r.Insights == nil {
		return errNoTable
	}
	if err := report.ExportWorkbook(s.Path, r.Schema, r.Report, r.Insights); err != nil {
		return err
	}
	s.Logger.Info("workbook written", "path", s.Path)
	return nil
}
