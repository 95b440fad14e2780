package metrics

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once         sync.Once
	reg          *prom.Registry
	fileDuration prom.Histogram
	runDuration  prom.Histogram
	fileResults  *prom.CounterVec
	issues       *prom.CounterVec
	runOutcome   *prom.CounterVec
	workers      prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.once.Do(func() {
		pr.fileDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mdxcheck",
			Name:      "file_duration_seconds",
			Help:      "Time spent validating a single document",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mdxcheck",
			Name:      "run_duration_seconds",
			Help:      "Total lint run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.fileResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mdxcheck",
			Name:      "file_results_total",
			Help:      "Linted documents by outcome",
		}, []string{"result"})
		pr.issues = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mdxcheck",
			Name:      "issues_total",
			Help:      "Reported issues by rule and issue code",
		}, []string{"rule", "code"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mdxcheck",
			Name:      "run_outcomes_total",
			Help:      "Lint runs by final status",
		}, []string{"outcome"})
		pr.workers = prom.NewGauge(prom.GaugeOpts{
			Namespace: "mdxcheck",
			Name:      "workers",
			Help:      "Worker pool size used by the last lint run",
		})
		reg.MustRegister(pr.fileDuration, pr.runDuration, pr.fileResults, pr.issues, pr.runOutcome, pr.workers)
	})
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveFileDuration(d time.Duration) {
	if p == nil || p.fileDuration == nil {
		return
	}
	p.fileDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFileResult(result ResultLabel) {
	if p == nil || p.fileResults == nil {
		return
	}
	p.fileResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncIssue(rule, code string) {
	if p == nil || p.issues == nil {
		return
	}
	p.issues.WithLabelValues(rule, code).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	if p == nil || p.workers == nil {
		return
	}
	p.workers.Set(float64(n))
}

// WriteTextfile writes the current metrics in the text exposition format,
// ready for the node_exporter textfile collector. The file is replaced
// atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return prom.WriteToTextfile(path, p.reg)
}
