package history

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Run is the summary of one lint invocation.
type Run struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	// Path is the linted directory or a description such as "changed files".
	Path     string `json:"path"`
	Files    int    `json:"files"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	// Outcome is clean, warnings, errors or failed.
	Outcome string `json:"outcome"`
	// Codes counts issues per issue code (or rule for issues without a code).
	Codes map[string]int `json:"codes,omitempty"`
}

// NewRunID returns a unique run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// CodeCount is one entry of Run.TopCodes.
type CodeCount struct {
	Code  string
	Count int
}

// TopCodes returns issue codes by descending count, ties by name.
func (r Run) TopCodes(n int) []CodeCount {
	out := make([]CodeCount, 0, len(r.Codes))
	for code, count := range r.Codes {
		out = append(out, CodeCount{Code: code, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
