package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyRule       = "rule"
	KeyCode       = "code"
	KeyLine       = "line"
	KeyRunID      = "run_id"
	KeyFiles      = "files"
	KeyIssues     = "issues"
	KeyWorkers    = "workers"
	KeyComponent  = "component"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func Rule(name string) slog.Attr   { return slog.String(KeyRule, name) }
func Code(code string) slog.Attr   { return slog.String(KeyCode, code) }
func Line(n int) slog.Attr         { return slog.Int(KeyLine, n) }
func RunID(id string) slog.Attr    { return slog.String(KeyRunID, id) }
func Files(n int) slog.Attr        { return slog.Int(KeyFiles, n) }
func Issues(n int) slog.Attr       { return slog.Int(KeyIssues, n) }
func Workers(n int) slog.Attr      { return slog.Int(KeyWorkers, n) }
func Component(n string) slog.Attr { return slog.String(KeyComponent, n) }
func DurationMS(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMS, ms)
}

// Since reports the elapsed time since start in milliseconds.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
