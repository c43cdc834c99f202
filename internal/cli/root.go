// Package cli provides the eda command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amruakhi/eda-analysis/internal/config"
	"github.com/amruakhi/eda-analysis/pkg/report"
)

// Version information, set at build time.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

type (
	configKey struct{}
	loggerKey struct{}
)

// NewRootCmd returns the eda command. Running it without a subcommand produces
// the full report.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "eda",
		Short: "Exploratory data analysis report for restaurant listings",
		Long: `eda loads a restaurant listings CSV export, prints its shape, missing values
and summary statistics, drops duplicate rows, fills missing cuisines, renders a
fixed sequence of charts and prints the top cuisines, cities and grouped means.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := cfg.Logger(cmd.ErrOrStderr())
			if cfg.File != "" {
				log.Debug("using config file", "path", cfg.File)
			}
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, log)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	f := root.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default: ./eda.yaml)")
	f.StringP("input", "i", "", "CSV file to analyse (default \""+config.DefaultInput+"\")")
	f.String("encoding", "", "text encoding of the input (default \"latin1\")")
	f.String("delimiter", "", "field delimiter (default \",\")")
	f.String("output-dir", "", "directory charts are written to (default \""+config.DefaultOutputDir+"\")")
	f.String("format", "", "chart image format ("+strings.Join(report.Formats, "|")+")")
	f.String("xlsx", "", "also export every table to this .xlsx workbook")
	f.StringP("output", "o", "", "console output ("+strings.Join(report.Modes, "|")+")")
	f.Int("preview", 0, "print the first N rows after loading")
	f.String("log-level", "", "log level (debug|info|warn|error)")
	f.String("log-format", "", "log format (text|json)")
	f.BoolP("verbose", "v", false, "debug logging")

	_ = root.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return report.Modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return report.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newRunCommand(), newInspectCommand(), newVersionCommand())
	return root
}

// Execute runs the root command with ctx and returns its error unprinted.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// getConfig returns the config loaded by the root pre-run hook.
func getConfig(ctx context.Context) (*config.Config, error) {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c, nil
	}
	return nil, fmt.Errorf("configuration not loaded")
}

// getLogger returns the logger from ctx, or one that discards.
func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
