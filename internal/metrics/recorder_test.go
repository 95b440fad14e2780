package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls.
type testRecorder struct {
	mu            sync.Mutex
	fileDurations int
	runDurations  int
	fileResults   map[ResultLabel]int
	issues        map[string]int
	outcomes      map[string]int
	workers       int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{fileResults: map[ResultLabel]int{}, issues: map[string]int{}, outcomes: map[string]int{}}
}

func (t *testRecorder) ObserveFileDuration(time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fileDurations++
}

func (t *testRecorder) ObserveRunDuration(time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runDurations++
}

func (t *testRecorder) IncFileResult(result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fileResults[result]++
}

func (t *testRecorder) IncIssue(rule, code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issues[rule+"/"+code]++
}

func (t *testRecorder) IncRunOutcome(outcome string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outcomes[outcome]++
}

func (t *testRecorder) SetWorkers(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.workers = n
}

var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
