package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amruakhi/eda-analysis/internal/testutil"
	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/errs"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("eda", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.StringP("input", "i", "", "")
	fs.String("output-dir", "", "")
	fs.String("format", "", "")
	fs.String("log-level", "", "")
	fs.Int("preview", 0, "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	testutil.Chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultInput, cfg.Input)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, ",", cfg.Delimiter)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, "png", cfg.Format)
	assert.Equal(t, "auto", cfg.Output)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.File)
	assert.Equal(t, data.DefaultSchema(), cfg.Schema())
	assert.Equal(t, data.DefaultOptions(), cfg.LoadOptions())
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	testutil.Chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eda.yaml"), []byte(`
input: listings.csv
output_dir: from-file
format: svg
delimiter: ";"
log:
  level: warn
columns:
  cuisines: Cuisine Types
`), 0o644))
	t.Setenv("EDA_OUTPUT_DIR", "from-env")
	t.Setenv("EDA_LOG_LEVEL", "error")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--format", "pdf", "--preview", "5"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "eda.yaml", cfg.File)
	assert.Equal(t, "listings.csv", cfg.Input) // file
	assert.Equal(t, "from-env", cfg.OutputDir) // env beats file
	assert.Equal(t, "error", cfg.Log.Level)    // env beats file
	assert.Equal(t, "pdf", cfg.Format)         // flag beats file
	assert.Equal(t, 5, cfg.Preview)
	assert.Equal(t, ';', cfg.LoadOptions().Delimiter)

	s := cfg.Schema()
	assert.Equal(t, "Cuisine Types", s.Cuisines)
	assert.Equal(t, "City", s.City)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	testutil.Chdir(t, t.TempDir())
	t.Setenv("EDA_INPUT", "env.csv")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"-i", "flag.csv", "-v"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "flag.csv", cfg.Input)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	testutil.Chdir(t, t.TempDir())
	_, err := Load("nope.yaml", nil)
	assert.ErrorIs(t, err, errs.ErrConfig)
	assert.Equal(t, 2, errs.ExitCode(err))
}

func TestValidate_ReportsEveryField(t *testing.T) {
	testutil.Chdir(t, t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)

	cfg.Delimiter = ";;"
	cfg.Format = "bmp"
	cfg.Output = "html"
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Preview = -1

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfig)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 6)
	for _, field := range []string{"delimiter", "format", "output", "log.level", "log.format", "preview"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidate_Delimiter(t *testing.T) {
	tests := []struct {
		delim string
		ok    bool
	}{
		{",", true},
		{"\t", true},
		{"|", true},
		{"", false},
		{"ab", false},
		{"\n", false},
		{`"`, false},
	}
	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.delim, "\n", `\n`), func(t *testing.T) {
			testutil.Chdir(t, t.TempDir())
			cfg, err := Load("", nil)
			require.NoError(t, err)
			cfg.Delimiter = tt.delim
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.ErrorIs(t, cfg.Validate(), errs.ErrConfig)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "output_dir", envKey("EDA_OUTPUT_DIR"))
	assert.Equal(t, "log.level", envKey("EDA_LOG_LEVEL"))
	assert.Equal(t, "columns.price_range", envKey("EDA_COLUMNS_PRICE_RANGE"))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	log := cfg.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
}
