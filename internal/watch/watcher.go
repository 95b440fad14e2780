// Package watch re-runs a handler when content documents change on disk.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxcheck/internal/logfields"
)

// Handler receives the documents changed during one debounce window, sorted.
type Handler func(ctx context.Context, files []string)

// Options tunes a Watcher.
type Options struct {
	// Debounce is the quiet period after the last event before Handler runs.
	Debounce time.Duration
	// Extensions limits events to document files (e.g. ".md"). Empty means all files.
	Extensions []string
	// Skip excludes paths such as ignored directories.
	Skip func(path string, isDir bool) bool
}

// Watcher monitors content directories recursively.
type Watcher struct {
	roots   []string
	handler Handler
	opts    Options
	watcher *fsnotify.Watcher

	mu        sync.Mutex
	pending   map[string]struct{}
	readyOnce sync.Once
	ready     chan struct{}
}

// New creates a watcher over roots. Directories are watched recursively and
// directories created later are picked up automatically.
func New(roots []string, handler Handler, opts Options) (*Watcher, error) {
	if handler == nil {
		return nil, errors.ValidationError("handler is required").Build()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}

	w := &Watcher{
		handler: handler,
		opts:    opts,
		watcher: fw,
		pending: make(map[string]struct{}),
		ready:   make(chan struct{}),
	}
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			_ = fw.Close()
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watch root").
				WithContext("path", root).
				Build()
		}
		if err := w.addTree(abs); err != nil {
			_ = fw.Close()
			return nil, err
		}
		w.roots = append(w.roots, abs)
	}
	return w, nil
}

// Ready is closed once Run is consuming events.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run processes events until ctx is canceled. The handler runs on this
// goroutine, so at most one handler call is active at a time.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	slog.Info("Watching for changes", slog.Any("roots", w.roots))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	var fire <-chan time.Time

	w.readyOnce.Do(func() { close(w.ready) })

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				timer.Reset(w.opts.Debounce)
				fire = timer.C
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))

		case <-fire:
			fire = nil
			if files := w.drain(); len(files) > 0 {
				slog.Debug("Change batch ready", logfields.Files(len(files)))
				w.handler(ctx, files)
			}
		}
	}
}

// handle records a relevant event and reports whether the debounce timer
// should be (re)started.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			return false
		}
	}

	if !w.relevant(event.Name, false) {
		return false
	}

	w.mu.Lock()
	w.pending[event.Name] = struct{}{}
	w.mu.Unlock()
	return true
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.pending))
	for f := range w.pending {
		files = append(files, f)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(files)
	return files
}

func (w *Watcher) relevant(path string, isDir bool) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if w.opts.Skip != nil && w.opts.Skip(path, isDir) {
		return false
	}
	if isDir || len(w.opts.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.opts.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && !w.relevant(path, true) {
			return fs.SkipDir
		}
		return w.watcher.Add(path)
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
			WithContext("path", dir).
			Build()
	}
	return nil
}
