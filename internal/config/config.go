// Package config loads the report settings from defaults, an optional yaml file,
// EDA_ environment variables and command line flags, in rising precedence.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/errs"
	"github.com/amruakhi/eda-analysis/pkg/report"
)

// EnvPrefix is the prefix of environment overrides, e.g. EDA_OUTPUT_DIR.
const EnvPrefix = "EDA_"

// Defaults.
const (
	DefaultInput     = "zomato.csv"
	DefaultOutputDir = "figures"
	DefaultFormat    = "png"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the full set of report settings.
type Config struct {
	Input     string   `koanf:"input"`
	Encoding  string   `koanf:"encoding"`
	Delimiter string   `koanf:"delimiter"`
	NaNValues []string `koanf:"na_values"`
	OutputDir string   `koanf:"output_dir"`
	Format    string   `koanf:"format"`
	XLSX      string   `koanf:"xlsx"`
	Output    string   `koanf:"output"`
	Preview   int      `koanf:"preview"`
	Verbose   bool     `koanf:"verbose"`

	Log     LogConfig     `koanf:"log"`
	Columns ColumnsConfig `koanf:"columns"`

	// File is the config file that was read, empty when none was found.
	File string `koanf:"-"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ColumnsConfig renames the dataset columns the report reads.
type ColumnsConfig struct {
	Rating         string `koanf:"rating"`
	Votes          string `koanf:"votes"`
	PriceRange     string `koanf:"price_range"`
	OnlineDelivery string `koanf:"online_delivery"`
	City           string `koanf:"city"`
	Cuisines       string `koanf:"cuisines"`
	CostForTwo     string `koanf:"cost_for_two"`
}

func defaults() map[string]any {
	s := data.DefaultSchema()
	load := data.DefaultOptions()
	return map[string]any{
		"input":      DefaultInput,
		"encoding":   load.Encoding,
		"delimiter":  string(load.Delimiter),
		"na_values":  data.DefaultNaNValues,
		"output_dir": DefaultOutputDir,
		"format":     DefaultFormat,
		"xlsx":       "",
		"output":     report.ModeAuto,
		"preview":    0,
		"verbose":    false,

		"log.level":  DefaultLogLevel,
		"log.format": DefaultLogFormat,

		"columns.rating":          s.Rating,
		"columns.votes":           s.Votes,
		"columns.price_range":     s.PriceRange,
		"columns.online_delivery": s.OnlineDelivery,
		"columns.city":            s.City,
		"columns.cuisines":        s.Cuisines,
		"columns.cost_for_two":    s.CostForTwo,
	}
}

// findConfigFile returns explicit if set, else eda.yaml or eda.yml in the working
// directory if present.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"eda.yaml", "eda.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey maps EDA_OUTPUT_DIR to output_dir and EDA_LOG_LEVEL to log.level.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"log_", "columns_"} {
		if strings.HasPrefix(key, section) {
			return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
		}
	}
	return key
}

// flagKey maps --output-dir to output_dir and --log-level to log.level.
func flagKey(name string) string {
	switch name {
	case "log-level":
		return "log.level"
	case "log-format":
		return "log.format"
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Load merges defaults, the config file, environment and the flags that were
// explicitly set. A missing explicit config file is an error; a missing default
// one is not.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errs.Config("load defaults", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, errs.Config("read config file", fmt.Errorf("%s: %w", used, err))
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errs.Config("load environment", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errs.Config("load flags", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errs.Config("decode config", err)
	}
	cfg.File = used
	if cfg.Verbose {
		cfg.Log.Level = "debug"
	}
	return &cfg, nil
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Input == "" {
		result = multierror.Append(result, fmt.Errorf("input is required"))
	}
	if c.Encoding == "" {
		result = multierror.Append(result, fmt.Errorf("encoding is required"))
	}
	if r, n := utf8.DecodeRuneInString(c.Delimiter); n == 0 || n != len(c.Delimiter) || strings.ContainsRune("\r\n\"", r) || r == utf8.RuneError {
		result = multierror.Append(result, fmt.Errorf("delimiter must be a single character other than quote or newline, got %q", c.Delimiter))
	}
	if c.OutputDir == "" {
		result = multierror.Append(result, fmt.Errorf("output_dir is required"))
	}
	if !slices.Contains(report.Formats, c.Format) {
		result = multierror.Append(result, fmt.Errorf("format %q is not one of %s", c.Format, strings.Join(report.Formats, ", ")))
	}
	if !slices.Contains(report.Modes, c.Output) {
		result = multierror.Append(result, fmt.Errorf("output %q is not one of %s", c.Output, strings.Join(report.Modes, ", ")))
	}
	if c.Preview < 0 {
		result = multierror.Append(result, fmt.Errorf("preview must not be negative, got %d", c.Preview))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		result = multierror.Append(result, fmt.Errorf("log.level %q is not one of %s", c.Log.Level, strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		result = multierror.Append(result, fmt.Errorf("log.format %q is not one of %s", c.Log.Format, strings.Join(logFormats, ", ")))
	}
	if err := result.ErrorOrNil(); err != nil {
		return errs.Config("validate config", err)
	}
	return nil
}

// Schema returns the configured column names, falling back to the defaults for
// any left empty.
func (c *Config) Schema() data.Schema {
	return data.Schema{
		Rating:         c.Columns.Rating,
		Votes:          c.Columns.Votes,
		PriceRange:     c.Columns.PriceRange,
		OnlineDelivery: c.Columns.OnlineDelivery,
		City:           c.Columns.City,
		Cuisines:       c.Columns.Cuisines,
		CostForTwo:     c.Columns.CostForTwo,
	}.Merge(data.DefaultSchema())
}

// LoadOptions returns the CSV reader settings. Call Validate first.
func (c *Config) LoadOptions() data.Options {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return data.Options{Encoding: c.Encoding, Delimiter: r, NaNValues: c.NaNValues}
}

// Logger builds the slog logger described by the log section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
