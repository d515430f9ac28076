package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the burst of events an atomic save produces
// (create temp, write, chmod, rename) into a single reload.
const DefaultWatchDebounce = 150 * time.Millisecond

// newFSWatcherFn is a test seam for watcher creation failures.
var newFSWatcherFn = fsnotify.NewWatcher

// Watcher reloads the config file whenever it changes on disk.
//
// The parent directory is watched instead of the file itself: Save replaces
// the file by rename, which drops a file-level watch on most platforms.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(Config)
	onError  func(error)

	fsw      *fsnotify.Watcher
	stopOnce sync.Once
	done     chan struct{}
}

// WatcherOption customizes a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultWatchDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives reload and watch errors. Without it errors are
// only logged.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher creates a watcher for path. onChange receives the reloaded,
// validated config. Call Run to start delivering changes.
func NewWatcher(path string, onChange func(Config), opts ...WatcherOption) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}
	if onChange == nil {
		return nil, errors.New("config watcher: onChange callback required")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config watcher: resolve path: %w", err)
	}

	fsw, err := newFSWatcherFn()
	if err != nil {
		return nil, fmt.Errorf("config watcher: create: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("config watcher: watch dir: %w", err)
	}

	w := &Watcher{
		path:     absPath,
		debounce: DefaultWatchDebounce,
		onChange: onChange,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run delivers changes until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	defer w.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.reportError(fmt.Errorf("config watcher: %w", err))
		case <-timer.C:
			w.reload()
		}
	}
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		// Keep the running config; a half-edited file should not reset settings.
		w.reportError(fmt.Errorf("config watcher: reload: %w", err))
		return
	}
	slog.Debug("[DEBUG-CONFIG] config reloaded", "path", w.path)
	w.onChange(cfg)
}

func (w *Watcher) reportError(err error) {
	slog.Warn("[WARN-CONFIG] config watch error", "path", w.path, "error", err)
	if w.onError != nil {
		w.onError(err)
	}
}
