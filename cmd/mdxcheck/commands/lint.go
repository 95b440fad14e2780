package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxcheck/internal/git"
	"git.home.luguber.info/inful/mdxcheck/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format      string `short:"f" help:"Output format (text or json); defaults to lint.format from the configuration"`
	Quiet       bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	Fix         bool   `help:"Stamp content fingerprints and bump 'updated' on changed documents"`
	DryRun      bool   `help:"Show what would be fixed without applying changes (requires --fix)"`
	Changed     bool   `help:"Only lint documents modified in the git working tree"`
	Staged      bool   `help:"Only lint documents staged in the git index"`
	Registry    string `help:"Component registry file (overrides components.registry)" type:"path"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the run" type:"path"`

	Path        *LintPathCmd    `cmd:"" default:"withargs" help:"Lint a path (file or directory)"`
	InstallHook *InstallHookCmd `cmd:"" help:"Install pre-commit hook for automatic linting"`
}

// LintPathCmd handles linting a specific path.
type LintPathCmd struct {
	Path string `help:"Path to lint (file or directory). Defaults to content.paths or detection (content/, posts/, docs/, or .)" arg:"" optional:""`
}

// Run executes the lint path command.
func (lp *LintPathCmd) Run(parent *LintCmd, g *Global, root *CLI) error {
	if parent.DryRun && !parent.Fix {
		return errors.ValidationError("--dry-run requires --fix flag").Build()
	}
	if parent.Changed && parent.Staged {
		return errors.ValidationError("--changed and --staged are mutually exclusive").Build()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := newSession(g, sessionOptions{
		Registry:    parent.Registry,
		MetricsFile: parent.MetricsFile,
		Quiet:       parent.Quiet,
		Format:      parent.Format,
		Fix:         parent.Fix,
		DryRun:      parent.DryRun,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	targets, autoDetected := s.targets(lp.Path)
	if root.Verbose && autoDetected {
		g.Logger.Debug("Detected content directory", "path", targets[0])
	}
	for _, target := range targets {
		if err := pathExists(target); err != nil {
			return err
		}
	}

	var files []string
	label := targets[0]
	if parent.Changed || parent.Staged {
		scope := git.ScopeWorktree
		label = "changed files"
		if parent.Staged {
			scope, label = git.ScopeStaged, "staged files"
		}
		if files, err = changedFiles(targets, scope); err != nil {
			return err
		}
	}

	if parent.Fix {
		return lp.runFixer(ctx, s, targets, files, parent.Changed || parent.Staged, parent.DryRun)
	}

	start := time.Now()
	var result *lint.Result
	if parent.Changed || parent.Staged {
		result, err = s.linter.LintFiles(ctx, files)
	} else {
		result, err = s.lintTargets(ctx, targets)
	}
	if err != nil {
		return err
	}

	if err := s.report(result, targets, autoDetected); err != nil {
		return err
	}
	s.finish(ctx, result, label, start)

	return exitStatus(result, parent.Quiet)
}

// changedFiles lists the git changes of scope that fall inside targets.
func changedFiles(targets []string, scope git.Scope) ([]string, error) {
	repo, err := git.Open(targets[0])
	if err != nil {
		return nil, err
	}
	changed, err := repo.ChangedFiles(scope)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, target := range targets {
		files = append(files, git.Under(changed, target)...)
	}
	return files, nil
}

// runFixer executes the fixer and displays results.
func (lp *LintPathCmd) runFixer(ctx context.Context, s *session, targets, files []string, onlyFiles, dryRun bool) error {
	fixer := lint.NewFixer(s.linter, dryRun)

	var result *lint.FixResult
	var err error
	if onlyFiles {
		result, err = fixer.FixFiles(ctx, files)
	} else {
		result = &lint.FixResult{}
		for _, target := range targets {
			var partial *lint.FixResult
			if partial, err = fixer.Fix(ctx, target); err != nil {
				break
			}
			result.Stamped = append(result.Stamped, partial.Stamped...)
			result.Skipped = append(result.Skipped, partial.Skipped...)
			result.Errors = append(result.Errors, partial.Errors...)
		}
	}
	if err != nil {
		return err
	}

	if dryRun {
		_, _ = fmt.Fprintf(s.g.Out, "DRY RUN: No changes will be applied\n\n")
	}
	_, _ = fmt.Fprint(s.g.Out, result.Summary(dryRun))

	if result.HasErrors() {
		return errors.FileSystemError(fmt.Sprintf("%d document(s) could not be fixed", len(result.Errors))).Build()
	}
	if !dryRun && len(result.Stamped) > 0 {
		_, _ = fmt.Fprintf(s.g.Out, "\n✨ Successfully stamped %d document%s\n", len(result.Stamped), plural(len(result.Stamped)))
	}
	return nil
}
