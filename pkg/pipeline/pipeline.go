// Package pipeline runs the report stages in order over one shared Run value.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/amruakhi/eda-analysis/pkg/aggregate"
	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/dataprep"
	"github.com/amruakhi/eda-analysis/pkg/inspect"
)

// Step is one stage of the report.
type Step interface {
	Name() string
	Run(ctx context.Context, r *Run) error
}

// Run is the state handed from step to step. Each step reads what earlier steps
// left and fills in its own part.
type Run struct {
	Schema   data.Schema
	Table    *data.Table
	Report   *inspect.Report
	Clean    dataprep.CleanStats
	Insights *aggregate.Insights
	Charts   []string
}

// Pipeline chains steps.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// NewPipeline returns a pipeline that logs nothing.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithLogger sets the logger used for step progress.
func (p *Pipeline) WithLogger(l *slog.Logger) *Pipeline {
	if l != nil {
		p.logger = l
	}
	return p
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Run executes the steps in order and stops at the first error. Cancellation is
// checked between steps.
func (p *Pipeline) Run(ctx context.Context, s data.Schema) (*Run, error) {
	r := &Run{Schema: s}
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		start := time.Now()
		p.logger.Debug("step started", "step", step.Name())
		if err := step.Run(ctx, r); err != nil {
			p.logger.Debug("step failed", "step", step.Name(), "error", err)
			return r, fmt.Errorf("%s: %w", step.Name(), err)
		}
		p.logger.Debug("step finished", "step", step.Name(), "duration", time.Since(start))
	}
	return r, nil
}
