package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amruakhi/eda-analysis/pkg/pipeline"
	"github.com/amruakhi/eda-analysis/pkg/report"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Produce the full report (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd)
		},
	}
}

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Load the input and print the inspection report only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := getConfig(ctx)
			if err != nil {
				return err
			}
			p := pipeline.NewInspect(pipeline.Options{
				Input:   cfg.Input,
				Load:    cfg.LoadOptions(),
				Preview: cfg.Preview,
				Printer: report.NewPrinter(cmd.OutOrStdout(), cfg.Output),
				Logger:  getLogger(ctx),
			})
			_, err = p.Run(ctx, cfg.Schema())
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "eda v%s (%s)\n", Version, GitCommit)
		},
	}
}

func runReport(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}
	log := getLogger(ctx)

	renderer, err := report.NewPlotRenderer(cfg.OutputDir, cfg.Format)
	if err != nil {
		return err
	}
	p := pipeline.New(pipeline.Options{
		Input:    cfg.Input,
		Load:     cfg.LoadOptions(),
		Preview:  cfg.Preview,
		Printer:  report.NewPrinter(cmd.OutOrStdout(), cfg.Output),
		Renderer: renderer,
		Workbook: cfg.XLSX,
		Logger:   log,
	})
	run, err := p.Run(ctx, cfg.Schema())
	if err != nil {
		return err
	}
	log.Info("report complete",
		"rows", run.Table.Rows(),
		"duplicates_dropped", run.Clean.Duplicates(),
		"charts", len(run.Charts))
	return nil
}
