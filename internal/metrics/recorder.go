package metrics

import "time"

// ResultLabel enumerates per-file lint outcomes for counters.
type ResultLabel string

const (
	ResultClean   ResultLabel = "clean"
	ResultWarning ResultLabel = "warning"
	ResultError   ResultLabel = "error"
	// ResultFailed means the file could not be read at all.
	ResultFailed ResultLabel = "failed"
)

// Recorder defines observability hooks for lint runs. Implementations may
// forward to Prometheus or anything else. All methods must be safe for
// concurrent use because files are linted in parallel.
type Recorder interface {
	ObserveFileDuration(d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncFileResult(result ResultLabel)
	IncIssue(rule, code string)
	IncRunOutcome(outcome string) // outcome: clean|warnings|errors|failed|canceled
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFileDuration(time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)  {}
func (NoopRecorder) IncFileResult(ResultLabel)         {}
func (NoopRecorder) IncIssue(string, string)           {}
func (NoopRecorder) IncRunOutcome(string)              {}
func (NoopRecorder) SetWorkers(int)                    {}
