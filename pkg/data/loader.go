package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/amruakhi/eda-analysis/pkg/errs"
)

// DefaultNaNValues are the cell tokens read as missing.
var DefaultNaNValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Options control how a delimited file is read.
type Options struct {
	Encoding  string
	Delimiter rune
	NaNValues []string
}

// DefaultOptions reads comma separated Latin-1 text with the default missing tokens.
func DefaultOptions() Options {
	return Options{
		Encoding:  "latin1",
		Delimiter: ',',
		NaNValues: DefaultNaNValues,
	}
}

var errEmptyFile = errors.New("file has no header row")

// Load reads a delimited text file with a header row into a Table.
// Every failure is an errs.ErrDataLoad.
func Load(path string, opts Options) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errs.DataLoad("open "+path, err)
	}
	defer file.Close()

	t, err := Read(file, opts)
	if err != nil {
		return nil, errs.DataLoad("read "+path, err)
	}
	return t, nil
}

// Read parses delimited text from r into a Table.
func Read(r io.Reader, opts Options) (*Table, error) {
	decoded, err := decode(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bufio.NewReader(decoded))
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errEmptyFile
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	nanValues := opts.NaNValues
	if nanValues == nil {
		nanValues = DefaultNaNValues
	}
	return FromRecords(header, records[1:], nanValues)
}

// single-byte encodings commonly passed under their short names
var aliases = map[string]encoding.Encoding{
	"latin1":       charmap.ISO8859_1,
	"latin-1":      charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
}

// decode wraps r so that it yields UTF-8 from the named encoding.
func decode(r io.Reader, name string) (io.Reader, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "utf-8", "utf8":
		return r, nil
	}
	enc, ok := aliases[key]
	if !ok {
		var err error
		enc, err = ianaindex.IANA.Encoding(key)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
		}
		if enc == nil {
			return nil, fmt.Errorf("encoding %q is not supported", name)
		}
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
