// Package metrics provides observability hooks for lint runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks at call sites.
// PrometheusRecorder backs the `--metrics-file` flag: a one-shot CLI has no
// scrape endpoint, so metrics are written in the text exposition format for
// the node_exporter textfile collector instead.
//
// Usage:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	linter := lint.NewLinter(cfg, lint.WithRecorder(rec))
//	_, _ = linter.LintPath(ctx, "content")
//	_ = rec.WriteTextfile("/var/lib/node_exporter/mdxcheck.prom")
package metrics
