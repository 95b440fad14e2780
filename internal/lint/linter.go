package lint

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/mdxcheck/internal/component"
	"git.home.luguber.info/inful/mdxcheck/internal/docmodel"
	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxcheck/internal/logfields"
	"git.home.luguber.info/inful/mdxcheck/internal/metrics"
)

// Linter performs linting operations on content files.
type Linter struct {
	cfg      *Config
	registry *component.Registry
	recorder metrics.Recorder
	rules    []Rule
}

// Option customises a Linter.
type Option func(*Linter)

// WithRegistry sets the component registry invocations are resolved against.
func WithRegistry(r *component.Registry) Option {
	return func(l *Linter) { l.registry = r }
}

// WithRecorder routes run metrics to rec.
func WithRecorder(rec metrics.Recorder) Option {
	return func(l *Linter) {
		if rec != nil {
			l.recorder = rec
		}
	}
}

// WithRules replaces the default rule set.
func WithRules(rules ...Rule) Option {
	return func(l *Linter) { l.rules = rules }
}

// NewLinter creates a new linter with the given configuration.
func NewLinter(cfg *Config, opts ...Option) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}

	l := &Linter{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = component.DefaultRegistry()
	}
	if l.rules == nil {
		l.rules = []Rule{
			&FrontmatterSchemaRule{},
			NewComponentsRule(l.registry),
			&FilenameRule{extensions: l.extensions()},
		}
	}
	return l
}

// Registry returns the component registry in use.
func (l *Linter) Registry() *component.Registry { return l.registry }

// LintPath lints all content files in the given path (file or directory).
func (l *Linter) LintPath(ctx context.Context, path string) (*Result, error) {
	files, err := l.collect(path)
	if err != nil {
		return nil, err
	}
	return l.lint(ctx, files)
}

// collect returns the files a lint of path covers.
func (l *Linter) collect(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		category := errors.CategoryFileSystem
		if os.IsNotExist(err) {
			category = errors.CategoryNotFound
		}
		return nil, errors.WrapError(err, category, "cannot lint path").
			WithContext("path", path).
			Build()
	}

	if !info.IsDir() {
		return []string{path}, nil
	}
	return l.Discover(path)
}

// LintPaths lints several files or directories as one run. A file reached
// through more than one path is linted once.
func (l *Linter) LintPaths(ctx context.Context, paths []string) (*Result, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, path := range paths {
		found, err := l.collect(path)
		if err != nil {
			return nil, err
		}
		for _, file := range found {
			key := filepath.Clean(file)
			if abs, absErr := filepath.Abs(file); absErr == nil {
				key = abs
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			files = append(files, file)
		}
	}
	return l.lint(ctx, files)
}

// LintFiles lints a specific list of files (useful for Git hooks).
// Files that are not documents, are ignored, or no longer exist are skipped.
func (l *Linter) LintFiles(ctx context.Context, files []string) (*Result, error) {
	return l.lint(ctx, l.Select(files))
}

// Select keeps the existing, non-ignored document files of files.
func (l *Linter) Select(files []string) []string {
	selected := make([]string, 0, len(files))
	for _, file := range files {
		if isIgnoredFile(filepath.Base(file)) || l.ignored(file, filepath.Base(file)) {
			continue
		}
		if !hasExtension(file, l.extensions()) {
			continue
		}
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		selected = append(selected, file)
	}
	return selected
}

// Discover returns the content files below root in lexical order.
func (l *Linter) Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories and files
		if name := d.Name(); path != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if path != root && l.ignored(filepath.ToSlash(rel), d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		// Skip standard ignored files (case-insensitive)
		if isIgnoredFile(d.Name()) {
			return nil
		}
		if !hasExtension(path, l.extensions()) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk content directory").
			WithContext("path", root).
			Build()
	}
	return files, nil
}

func (l *Linter) lint(ctx context.Context, files []string) (*Result, error) {
	start := time.Now()
	workers := l.workers(len(files))
	l.recorder.SetWorkers(workers)

	perFile := make([][]Issue, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			issues, err := l.lintFile(file)
			if err != nil {
				return err
			}
			perFile[i] = issues
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.finishRun(start, "failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		l.finishRun(start, "canceled")
		return nil, err
	}

	result := &Result{Issues: []Issue{}, FilesTotal: len(files)}
	for _, issues := range perFile {
		result.Issues = append(result.Issues, issues...)
	}
	sort.SliceStable(result.Issues, func(i, j int) bool {
		a, b := result.Issues[i], result.Issues[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.Line < b.Line
	})

	outcome := "clean"
	switch {
	case result.HasErrors():
		outcome = "errors"
	case result.HasWarnings():
		outcome = "warnings"
	}
	l.finishRun(start, outcome)

	slog.Debug("Lint run complete",
		logfields.Files(result.FilesTotal),
		logfields.Issues(len(result.Issues)),
		logfields.Workers(workers),
		logfields.Since(start))
	return result, nil
}

func (l *Linter) finishRun(start time.Time, outcome string) {
	l.recorder.ObserveRunDuration(time.Since(start))
	l.recorder.IncRunOutcome(outcome)
}

// lintFile applies all applicable rules to a single file.
func (l *Linter) lintFile(filePath string) ([]Issue, error) {
	start := time.Now()

	doc, err := l.load(filePath)
	if err != nil {
		l.recorder.IncFileResult(metrics.ResultFailed)
		return nil, err
	}

	var issues []Issue
	for _, rule := range l.rules {
		if !rule.AppliesTo(filePath) {
			continue
		}

		found, err := rule.Check(doc)
		if err != nil {
			l.recorder.IncFileResult(metrics.ResultFailed)
			return nil, errors.WrapError(err, errors.CategoryInternal, "rule failed").
				WithContext("path", filePath).
				WithContext("rule", rule.Name()).
				Build()
		}

		// Filter issues based on configuration
		for _, issue := range found {
			// Skip info and warnings in quiet mode
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			issues = append(issues, issue)
		}
	}

	result := metrics.ResultClean
	for _, issue := range issues {
		l.recorder.IncIssue(issue.Rule, string(issue.Code))
		switch {
		case issue.Severity == SeverityError:
			result = metrics.ResultError
		case issue.Severity == SeverityWarning && result == metrics.ResultClean:
			result = metrics.ResultWarning
		}
	}
	l.recorder.IncFileResult(result)
	l.recorder.ObserveFileDuration(time.Since(start))

	if len(issues) > 0 {
		slog.Debug("Document has issues", logfields.Path(filePath), logfields.Issues(len(issues)))
	}
	return issues, nil
}

// load reads and splits a file. Read failures are returned; split failures
// become part of the Document so rules can report them.
func (l *Linter) load(filePath string) (*Document, error) {
	// #nosec G304 -- filePath comes from discovery or explicit user input.
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", filePath).
			Build()
	}

	parsed, err := docmodel.Parse(data)
	if err != nil {
		return &Document{Path: filePath, ParseErr: err}, nil
	}
	return &Document{Path: filePath, Parsed: parsed}, nil
}

func (l *Linter) workers(files int) int {
	n := l.cfg.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if files > 0 && n > files {
		n = files
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (l *Linter) extensions() []string {
	if len(l.cfg.Extensions) > 0 {
		return l.cfg.Extensions
	}
	return DefaultExtensions
}

func (l *Linter) ignored(relPath, name string) bool {
	for _, pattern := range l.cfg.Ignore {
		if ok, _ := filepath.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// isIgnoredFile returns true if the file should be ignored during linting.
// These are standard repository files that are not content documents.
func isIgnoredFile(filename string) bool {
	upper := strings.ToUpper(filename)
	ignoredFiles := []string{
		"README.MD",
		"CONTRIBUTING.MD",
		"CHANGELOG.MD",
		"LICENSE.MD",
		"CODE_OF_CONDUCT.MD",
		"SECURITY.MD",
	}

	for _, ignored := range ignoredFiles {
		if upper == ignored {
			return true
		}
	}
	return false
}
