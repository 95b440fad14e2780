package lint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/mdxcheck/internal/docmodel"
	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxcheck/internal/frontmatterops"
	"git.home.luguber.info/inful/mdxcheck/internal/logfields"
)

// Fixer keeps the fingerprint and updated bookkeeping keys current.
// It never touches published or any other key.
type Fixer struct {
	linter *Linter
	dryRun bool
	now    func() time.Time
}

// NewFixer creates a new fixer using linter for file discovery.
func NewFixer(linter *Linter, dryRun bool) *Fixer {
	return &Fixer{
		linter: linter,
		dryRun: dryRun,
		now:    time.Now,
	}
}

// FixResult contains the results of a fix operation.
type FixResult struct {
	Stamped []StampOperation
	// Skipped lists documents without readable front-matter.
	Skipped []string
	Errors  []error
}

// StampOperation records the keys written to one file.
type StampOperation struct {
	Path        string
	Fingerprint string
	// Updated is nil when only the fingerprint was stamped.
	Updated *int64
}

// Fix stamps every document under path (file or directory).
func (f *Fixer) Fix(ctx context.Context, path string) (*FixResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot fix path").
			WithContext("path", path).
			Build()
	}

	files := []string{path}
	if info.IsDir() {
		files, err = f.linter.Discover(path)
		if err != nil {
			return nil, err
		}
	}
	return f.FixFiles(ctx, files)
}

// FixFiles stamps the given documents, skipping files the linter would not
// select. Failures on single files are collected in the result; only
// cancellation aborts the run.
func (f *Fixer) FixFiles(ctx context.Context, files []string) (*FixResult, error) {
	files = f.linter.Select(files)
	result := &FixResult{
		Stamped: make([]StampOperation, 0),
		Skipped: make([]string, 0),
		Errors:  make([]error, 0),
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		op, skipped, err := f.fixFile(file)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, err)
		case skipped:
			result.Skipped = append(result.Skipped, file)
		case op != nil:
			result.Stamped = append(result.Stamped, *op)
		}
	}
	return result, nil
}

func (f *Fixer) fixFile(path string) (*StampOperation, bool, error) {
	doc, err := docmodel.ParseFile(path)
	if err != nil {
		if errors.HasCategory(err, errors.CategoryValidation) {
			return nil, true, nil
		}
		return nil, false, err
	}
	if !doc.HadFrontmatter() {
		return nil, true, nil
	}
	fields, err := doc.Fields()
	if err != nil {
		return nil, true, nil
	}

	stamp, err := frontmatterops.ComputeStamp(fields, doc.Body(), f.now())
	if err != nil {
		return nil, false, errors.WrapError(err, errors.CategoryInternal, "failed to compute fingerprint").
			WithContext("path", path).
			Build()
	}
	if !stamp.Changed {
		return nil, false, nil
	}

	op := &StampOperation{Path: path, Fingerprint: stamp.Fingerprint, Updated: stamp.Updated}
	if f.dryRun {
		return op, false, nil
	}

	out, err := frontmatterops.Rewrite(doc.Bytes(), stamp.Values())
	if err != nil {
		// Valid YAML that is not a mapping cannot carry bookkeeping keys.
		return nil, true, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, false, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat document").
			WithContext("path", path).
			Build()
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return nil, false, errors.WrapError(err, errors.CategoryFileSystem, "failed to write document").
			WithContext("path", path).
			Build()
	}

	slog.Debug("Stamped document", logfields.Path(path), slog.String("fingerprint", stamp.Fingerprint))
	return op, false, nil
}

// HasErrors returns true if any errors occurred during fixing.
func (fr *FixResult) HasErrors() bool {
	return len(fr.Errors) > 0
}

// Summary returns a human-readable summary of the fix operation.
func (fr *FixResult) Summary(dryRun bool) string {
	var b strings.Builder

	verb := "Stamped"
	if dryRun {
		verb = "Would stamp"
	}
	for _, op := range fr.Stamped {
		if op.Updated != nil {
			fmt.Fprintf(&b, "  %s: fingerprint, updated=%d\n", op.Path, *op.Updated)
		} else {
			fmt.Fprintf(&b, "  %s: fingerprint\n", op.Path)
		}
	}
	fmt.Fprintf(&b, "%s: %d file%s\n", verb, len(fr.Stamped), pluralize(len(fr.Stamped)))
	if len(fr.Skipped) > 0 {
		fmt.Fprintf(&b, "Skipped (unreadable front-matter): %d\n", len(fr.Skipped))
	}
	if len(fr.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors encountered: %d\n", len(fr.Errors))
		for _, err := range fr.Errors {
			fmt.Fprintf(&b, "  • %v\n", err)
		}
	}
	return b.String()
}
