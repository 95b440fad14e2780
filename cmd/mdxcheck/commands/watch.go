package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/mdxcheck/internal/logfields"
	"git.home.luguber.info/inful/mdxcheck/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Path     string        `help:"Directory to watch. Defaults to content.paths or detection" arg:"" optional:""`
	Debounce time.Duration `help:"Quiet period after the last change before re-linting" default:"300ms"`
	Format   string        `short:"f" help:"Output format (text or json)"`
	Quiet    bool          `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	Registry string        `help:"Component registry file (overrides components.registry)" type:"path"`
}

// Run lints the targets once, then re-lints changed documents until interrupted.
func (w *WatchCmd) Run(g *Global, _ *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := newSession(g, sessionOptions{Registry: w.Registry, Quiet: w.Quiet, Format: w.Format})
	if err != nil {
		return err
	}
	defer s.Close()

	targets, autoDetected := s.targets(w.Path)
	roots := make([]string, 0, len(targets))
	for _, target := range targets {
		if err := pathExists(target); err != nil {
			return err
		}
		roots = append(roots, watchRoot(target))
	}

	start := time.Now()
	result, err := s.lintTargets(ctx, targets)
	if err != nil {
		return err
	}
	if err := s.report(result, targets, autoDetected); err != nil {
		return err
	}
	s.finish(ctx, result, targets[0], start)

	watcher, err := watch.New(roots, w.handler(s), watch.Options{
		Debounce:   w.Debounce,
		Extensions: s.cfg.Content.Extensions,
	})
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

// handler re-lints one debounced batch of changed documents.
func (w *WatchCmd) handler(s *session) watch.Handler {
	return func(ctx context.Context, files []string) {
		start := time.Now()
		result, err := s.linter.LintFiles(ctx, files)
		if err != nil {
			s.g.Logger.Error("Re-lint failed", logfields.Error(err))
			return
		}
		if len(files) == 1 {
			_, _ = fmt.Fprintf(s.g.Out, "\n↻ %s changed\n", files[0])
		} else {
			_, _ = fmt.Fprintf(s.g.Out, "\n↻ %d documents changed\n", len(files))
		}
		if err := s.report(result, files, false); err != nil {
			s.g.Logger.Error("Failed to print results", logfields.Error(err))
		}
		s.finish(ctx, result, "watch", start)
	}
}

// watchRoot returns the directory to watch for target.
func watchRoot(target string) string {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return filepath.Dir(target)
	}
	return target
}

