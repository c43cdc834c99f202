package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amruakhi/eda-analysis/pkg/errs"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestLoad_Latin1(t *testing.T) {
	// 0xE9 is é in ISO-8859-1 and invalid UTF-8 on its own.
	content := []byte("Restaurant Name,City,Votes\nCaf\xe9 Pr\xe9,Lisboa,12\nBar,Porto,3\n")
	path := writeFile(t, "listings.csv", content)

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, []string{"Restaurant Name", "City", "Votes"}, tbl.Names())

	names, _, err := tbl.Strings("Restaurant Name")
	require.NoError(t, err)
	assert.Equal(t, "Café Pré", names[0])

	kind, err := tbl.Kind("Votes")
	require.NoError(t, err)
	assert.Equal(t, Int, kind)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		opts    Options
		errText string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			opts: DefaultOptions(),
		},
		{
			name: "empty file",
			path: func(t *testing.T) string { return writeFile(t, "empty.csv", nil) },
			opts:    DefaultOptions(),
			errText: "no header row",
		},
		{
			name: "ragged rows",
			path: func(t *testing.T) string {
				return writeFile(t, "ragged.csv", []byte("a,b\n1,2\n3\n"))
			},
			opts:    DefaultOptions(),
			errText: "wrong number of fields",
		},
		{
			name: "unknown encoding",
			path: func(t *testing.T) string {
				return writeFile(t, "ok.csv", []byte("a\n1\n"))
			},
			opts:    Options{Encoding: "klingon-8"},
			errText: "unknown encoding",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t), tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrDataLoad)
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	tbl, err := Read(strings.NewReader("City,Cuisines,Aggregate rating\n"), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, tbl.Rows())
	assert.Equal(t, 3, tbl.Cols())
	for _, name := range tbl.Names() {
		kind, err := tbl.Kind(name)
		require.NoError(t, err)
		assert.Equal(t, Object, kind, name)
	}
}

func TestRead_DelimiterAndEncodings(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		input    string
	}{
		{"utf-8", "utf-8", "a;b\nñ;1\n"},
		{"empty means utf-8", "", "a;b\nñ;1\n"},
		{"iana name", "ISO-8859-15", "a;b\n\xf1;1\n"},
		{"windows-1252", "cp1252", "a;b\n\xf1;1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Read(strings.NewReader(tt.input), Options{Encoding: tt.encoding, Delimiter: ';'})
			require.NoError(t, err)

			values, _, err := tbl.Strings("a")
			require.NoError(t, err)
			assert.Equal(t, []string{"ñ"}, values)
		})
	}
}

func TestRead_StripsUTF8BOM(t *testing.T) {
	tbl, err := Read(strings.NewReader("\ufeffCity\nDelhi\n"), Options{Encoding: "utf-8"})
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn("City"))
}
