// Package testutil provides shared test helpers: a logger that writes through
// testing.TB and a small sample project expressed as raw artifact JSON.
package testutil

import (
	"log/slog"
	"strings"
	"testing"
)

// NewTestLogger returns a debug-level logger for code under test, so skipped
// references and load failures in the sample artifacts show up next to the
// failing assertion when a test fails or runs with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(tbWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// tbWriter forwards each log record to t.Log as one line.
type tbWriter struct {
	tb testing.TB
}

func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
