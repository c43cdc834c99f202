// Package testutil holds helpers shared by package tests.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// NewTestLogger returns a debug logger that writes through t.Log, so output only
// shows for failing tests or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// WriteFile writes content to name inside a fresh temp dir and returns its path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ZomatoCSV is a small extract in the layout of the restaurant listings export:
// one exact duplicate row and one listing with no cuisines.
const ZomatoCSV = `Restaurant ID,Restaurant Name,City,Cuisines,Average Cost for two,Has Online delivery,Price range,Aggregate rating,Votes
1,Le Petit Souffle,Makati City,"French, Japanese",1100,No,3,4.8,314
2,Izakaya Kikufuji,Makati City,Japanese,1200,No,3,4.5,591
3,Heat - Edsa Shangri-La,Mandaluyong City,"Seafood, Asian",4000,No,4,4.4,270
4,Ooma,Mandaluyong City,"Japanese, Sushi",1500,No,4,4.9,365
5,Sambo Kojin,Mandaluyong City,"Japanese, Korean",1500,No,4,4.8,229
6,Cake Walk,New Delhi,Bakery,200,Yes,1,3.2,18
7,Chai Point,New Delhi,,250,Yes,1,3.6,45
6,Cake Walk,New Delhi,Bakery,200,Yes,1,3.2,18
8,Bikanervala,Noida,"North Indian, Street Food",500,Yes,2,3.9,120
`

// Chdir changes the working directory to dir for the duration of the test,
// restoring the previous directory on cleanup (a stand-in for testing.T.Chdir).
func Chdir(t testing.TB, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore dir %s: %v", prev, err)
		}
	})
}
