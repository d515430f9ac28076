package main

import (
	"context"
	"sync"
	"testing"
)

// NOTE: Tests in this package override package-level function variables
// (runtimeEventsEmitFn, setIgnoreCursorEventsFn, etc.). Do not use t.Parallel().

type emittedEvent struct {
	name    string
	payload any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (r *eventRecorder) emit(_ context.Context, name string, data ...any) {
	var payload any
	if len(data) > 0 {
		payload = data[0]
	}
	r.mu.Lock()
	r.events = append(r.events, emittedEvent{name: name, payload: payload})
	r.mu.Unlock()
}

func (r *eventRecorder) named(name string) []emittedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []emittedEvent
	for _, ev := range r.events {
		if ev.name == name {
			out = append(out, ev)
		}
	}
	return out
}

type lifecycleTestLogger struct {
	mu    sync.Mutex
	warns []string
	infos []string
	errs  []string
}

func (l *lifecycleTestLogger) Warningf(_ context.Context, message string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, formatRuntimeLogMessage(message, args...))
}

func (l *lifecycleTestLogger) Infof(_ context.Context, message string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, formatRuntimeLogMessage(message, args...))
}

func (l *lifecycleTestLogger) Errorf(_ context.Context, message string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, formatRuntimeLogMessage(message, args...))
}

func (l *lifecycleTestLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

type windowCalls struct {
	mu          sync.Mutex
	shows       int
	alwaysOnTop []bool
	sizes       [][2]int
}

// stubRuntime replaces every Wails runtime seam with recorders and restores
// the originals on cleanup.
func stubRuntime(t *testing.T) (*eventRecorder, *windowCalls, *lifecycleTestLogger) {
	t.Helper()

	origEmit := runtimeEventsEmitFn
	origLogger := runtimeLogger
	origShow := runtimeWindowShowFn
	origUnminimise := runtimeWindowUnminimiseFn
	origOnTop := runtimeWindowSetAlwaysOnTopFn
	origSize := runtimeWindowSetSizeFn
	origQuit := runtimeQuitFn
	origIgnore := setIgnoreCursorEventsFn
	t.Cleanup(func() {
		runtimeEventsEmitFn = origEmit
		runtimeLogger = origLogger
		runtimeWindowShowFn = origShow
		runtimeWindowUnminimiseFn = origUnminimise
		runtimeWindowSetAlwaysOnTopFn = origOnTop
		runtimeWindowSetSizeFn = origSize
		runtimeQuitFn = origQuit
		setIgnoreCursorEventsFn = origIgnore
	})

	rec := &eventRecorder{}
	win := &windowCalls{}
	logger := &lifecycleTestLogger{}

	runtimeEventsEmitFn = rec.emit
	runtimeLogger = logger
	runtimeWindowShowFn = func(context.Context) {
		win.mu.Lock()
		win.shows++
		win.mu.Unlock()
	}
	runtimeWindowUnminimiseFn = func(context.Context) {}
	runtimeWindowSetAlwaysOnTopFn = func(_ context.Context, b bool) {
		win.mu.Lock()
		win.alwaysOnTop = append(win.alwaysOnTop, b)
		win.mu.Unlock()
	}
	runtimeWindowSetSizeFn = func(_ context.Context, w, h int) {
		win.mu.Lock()
		win.sizes = append(win.sizes, [2]int{w, h})
		win.mu.Unlock()
	}
	runtimeQuitFn = func(context.Context) {}
	setIgnoreCursorEventsFn = func(string, bool) error { return nil }

	return rec, win, logger
}

// newTestApp returns an App with a live runtime context and stubbed runtime.
func newTestApp(t *testing.T) (*App, *eventRecorder, *windowCalls, *lifecycleTestLogger) {
	t.Helper()
	rec, win, logger := stubRuntime(t)
	app := NewApp()
	app.setRuntimeContext(context.Background())
	return app, rec, win, logger
}
