package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/mdxcheck/internal/component"
	"git.home.luguber.info/inful/mdxcheck/internal/config"
	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxcheck/internal/history"
	"git.home.luguber.info/inful/mdxcheck/internal/lint"
	"git.home.luguber.info/inful/mdxcheck/internal/logfields"
	"git.home.luguber.info/inful/mdxcheck/internal/metrics"
)

// sessionOptions carries the command-line overrides shared by lint and watch.
type sessionOptions struct {
	Registry    string
	MetricsFile string
	Quiet       bool
	Format      string
	Fix         bool
	DryRun      bool
}

// session wires a linter to the configured registry, metrics and history.
type session struct {
	g        *Global
	cfg      *config.Config
	opts     sessionOptions
	linter   *lint.Linter
	recorder *metrics.PrometheusRecorder
	textfile string
	store    history.Store
}

func newSession(g *Global, opts sessionOptions) (*session, error) {
	cfg, err := g.Settings()
	if err != nil {
		return nil, err
	}

	registry, err := loadRegistry(opts.Registry, cfg)
	if err != nil {
		return nil, err
	}

	switch opts.Format {
	case "":
		opts.Format = string(cfg.Lint.Format)
	case "text", "json":
	default:
		return nil, errors.ValidationError("unsupported output format").
			WithContext("format", opts.Format).
			WithContext("valid", "text, json").
			Build()
	}

	s := &session{g: g, cfg: cfg, opts: opts}

	s.textfile = opts.MetricsFile
	if s.textfile == "" {
		s.textfile = cfg.Metrics.Textfile
	}
	lintOpts := []lint.Option{lint.WithRegistry(registry)}
	if s.textfile != "" {
		s.recorder = metrics.NewPrometheusRecorder(nil)
		lintOpts = append(lintOpts, lint.WithRecorder(s.recorder))
	}

	if cfg.History.Database != "" {
		store, err := history.NewSQLiteStore(cfg.History.Database)
		if err != nil {
			return nil, err
		}
		s.store = store
	}

	s.linter = lint.NewLinter(&lint.Config{
		Quiet:      opts.Quiet,
		Format:     opts.Format,
		Fix:        opts.Fix,
		DryRun:     opts.DryRun,
		Workers:    cfg.Lint.Workers,
		Extensions: cfg.Content.Extensions,
		Ignore:     cfg.Content.Ignore,
	}, lintOpts...)
	return s, nil
}

// loadRegistry picks the registry from the flag, then the configuration, then
// the built-in default.
func loadRegistry(flag string, cfg *config.Config) (*component.Registry, error) {
	path := flag
	if path == "" {
		path = cfg.Components.Registry
	}
	if path == "" {
		return component.DefaultRegistry(), nil
	}
	return component.LoadRegistry(path)
}

func (s *session) Close() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		slog.Warn("Failed to close history database", logfields.Error(err))
	}
}

// targets resolves what to lint: the argument, the configured content paths,
// or an auto-detected content directory.
func (s *session) targets(arg string) ([]string, bool) {
	if arg != "" {
		return []string{arg}, false
	}
	if len(s.cfg.Content.Paths) > 0 {
		return s.cfg.Content.Paths, false
	}
	path, found := lint.DetectDefaultPath()
	return []string{path}, found
}

// lintTargets lints every target in a single run.
func (s *session) lintTargets(ctx context.Context, targets []string) (*lint.Result, error) {
	return s.linter.LintPaths(ctx, targets)
}

// report prints result in the session's format.
func (s *session) report(result *lint.Result, targets []string, autoDetected bool) error {
	formatter := lint.NewFormatter(s.opts.Format)
	if err := formatter.Format(s.g.Out, result, strings.Join(targets, ", "), autoDetected); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "formatting output").Build()
	}
	return nil
}

// finish exports metrics and records the run. Failures here are logged rather
// than returned so that a broken history database never hides lint results.
func (s *session) finish(ctx context.Context, result *lint.Result, label string, start time.Time) {
	if s.recorder != nil {
		if err := s.recorder.WriteTextfile(s.textfile); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(s.textfile), logfields.Error(err))
		}
	}
	if s.store == nil {
		return
	}

	run := history.Run{
		ID:        history.NewRunID(),
		StartedAt: start,
		Duration:  time.Since(start),
		Path:      label,
		Files:     result.FilesTotal,
		Errors:    result.ErrorCount(),
		Warnings:  result.WarningCount(),
		Outcome:   outcome(result),
		Codes:     codeCounts(result),
	}
	if err := s.store.Record(ctx, run); err != nil {
		slog.Warn("Failed to record lint run", logfields.RunID(run.ID), logfields.Error(err))
		return
	}
	if keep := s.cfg.History.Keep; keep > 0 {
		if _, err := s.store.Prune(ctx, keep); err != nil {
			slog.Warn("Failed to prune lint history", logfields.Error(err))
		}
	}
	slog.Debug("Recorded lint run", logfields.RunID(run.ID), logfields.Files(run.Files))
}

func outcome(result *lint.Result) string {
	switch {
	case result.HasErrors():
		return "errors"
	case result.HasWarnings():
		return "warnings"
	default:
		return "clean"
	}
}

func codeCounts(result *lint.Result) map[string]int {
	counts := make(map[string]int)
	for _, issue := range result.Issues {
		key := string(issue.Code)
		if key == "" {
			key = issue.Rule
		}
		counts[key]++
	}
	return counts
}

// issuesFoundError ends a completed lint run with a non-zero exit code.
type issuesFoundError struct {
	code    int
	message string
}

func (e *issuesFoundError) Error() string { return e.message }
func (e *issuesFoundError) ExitCode() int { return e.code }

// exitStatus maps a lint result to the process outcome: errors block
// publishing, warnings only fail when not in quiet mode.
func exitStatus(result *lint.Result, quiet bool) error {
	switch {
	case result.HasErrors():
		return &issuesFoundError{
			code:    errors.ExitCodeIssues,
			message: fmt.Sprintf("lint failed: %d error%s", result.ErrorCount(), plural(result.ErrorCount())),
		}
	case result.HasWarnings() && !quiet:
		return &issuesFoundError{
			code:    1,
			message: fmt.Sprintf("lint finished with %d warning%s", result.WarningCount(), plural(result.WarningCount())),
		}
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pathExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NewError(errors.CategoryNotFound, "path does not exist").WithContext("path", path).Build()
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot access path").WithContext("path", path).Build()
	}
	return nil
}
