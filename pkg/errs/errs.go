// Package errs defines the error taxonomy of a report run.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a report failure.
type Kind string

const (
	KindConfig         Kind = "CONFIG"
	KindDataLoad       Kind = "DATA_LOAD"
	KindColumnNotFound Kind = "COLUMN_NOT_FOUND"
	KindRender         Kind = "RENDER"
	KindExport         Kind = "EXPORT"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrConfig         = errors.New("invalid configuration")
	ErrDataLoad       = errors.New("data load failed")
	ErrColumnNotFound = errors.New("column not found")
	ErrRender         = errors.New("render failed")
	ErrExport         = errors.New("export failed")
)

// ErrNotNumeric is wrapped when a numeric operation meets a non-numeric column.
var ErrNotNumeric = errors.New("column is not numeric")

var sentinels = map[Kind]error{
	KindConfig:         ErrConfig,
	KindDataLoad:       ErrDataLoad,
	KindColumnNotFound: ErrColumnNotFound,
	KindRender:         ErrRender,
	KindExport:         ErrExport,
}

// Error is a classified failure. Op names the operation, Column the column involved
// (if any) and Err the underlying cause.
type Error struct {
	Kind   Kind
	Op     string
	Column string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Op)
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q)", e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// DataLoad creates a data load error.
func DataLoad(op string, cause error) *Error {
	return &Error{Kind: KindDataLoad, Op: op, Err: cause}
}

// ColumnNotFound creates an error for a column absent from the table.
func ColumnNotFound(op, column string) *Error {
	return &Error{Kind: KindColumnNotFound, Op: op, Column: column}
}

// Render creates a chart rendering error.
func Render(op string, cause error) *Error {
	return &Error{Kind: KindRender, Op: op, Err: cause}
}

// Export creates a workbook export error.
func Export(op string, cause error) *Error {
	return &Error{Kind: KindExport, Op: op, Err: cause}
}

// Config creates a configuration error.
func Config(op string, cause error) *Error {
	return &Error{Kind: KindConfig, Op: op, Err: cause}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfig):
		return 2
	case errors.Is(err, ErrDataLoad):
		return 3
	case errors.Is(err, ErrColumnNotFound):
		return 4
	case errors.Is(err, ErrRender):
		return 5
	case errors.Is(err, ErrExport):
		return 6
	default:
		return 1
	}
}
