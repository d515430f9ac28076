package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"echocast/internal/capture"
	"echocast/internal/config"
	"echocast/internal/inputhook"
	"echocast/internal/testutil"
)

type fakeHook struct {
	events []capture.RawEvent
	err    error
	// block keeps Run alive until ctx is cancelled after delivering events.
	block bool
}

func (h *fakeHook) Run(ctx context.Context, emit inputhook.EmitFunc) error {
	if h.err != nil {
		return h.err
	}
	for _, ev := range h.events {
		emit(ev)
	}
	if h.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

type hookFunc func(ctx context.Context, emit inputhook.EmitFunc) error

func (f hookFunc) Run(ctx context.Context, emit inputhook.EmitFunc) error { return f(ctx, emit) }

func stubInputHook(t *testing.T, hook inputhook.Hook) {
	t.Helper()
	original := newInputHookFn
	newInputHookFn = func() inputhook.Hook { return hook }
	t.Cleanup(func() { newInputHookFn = original })
}

func startTestCapture(t *testing.T, app *App) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	app.startCapture(ctx, config.DefaultConfig())
	t.Cleanup(func() {
		cancel()
		app.shuttingDown.Store(true)
		if !waitWithTimeout(app.bgWG.Wait, 2*time.Second) {
			t.Error("capture goroutines did not stop")
		}
	})
}

func TestStartCaptureDeliversNormalizedEvents(t *testing.T) {
	app, rec, _, _ := newTestApp(t)
	stubInputHook(t, &fakeHook{
		block: true,
		events: []capture.RawEvent{
			capture.KeyPressText(capture.KeyA, "a"),
			capture.KeyRelease(capture.KeyA),
			capture.ButtonPress(capture.ButtonLeft),
			capture.ButtonRelease(capture.ButtonLeft),
		},
	})
	startTestCapture(t, app)

	if !testutil.WaitForCondition(t, 2*time.Second, func() bool {
		return len(rec.named(inputEventName)) == 4
	}) {
		t.Fatalf("got %d input events, want 4", len(rec.named(inputEventName)))
	}

	got := rec.named(inputEventName)
	wantLabels := []string{"@Key[a]", "@MouseDown[Left]", "@MouseUp[Left]", "@Click[Left]"}
	for i, want := range wantLabels {
		ev, ok := got[i].payload.(capture.Event)
		if !ok {
			t.Fatalf("payload[%d] type %T", i, got[i].payload)
		}
		if ev.Label != want {
			t.Fatalf("event[%d].Label = %q, want %q", i, ev.Label, want)
		}
	}
	if status := app.GetCaptureStatus(); !status.Available || status.Processed != 4 {
		t.Fatalf("status = %+v, want available with 4 processed", status)
	}
}

func TestStartCaptureReportsHookFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{name: "permission", err: fmt.Errorf("open /dev/input: %w", inputhook.ErrPermissionDenied), wantReason: "permission"},
		{name: "unsupported", err: inputhook.ErrUnsupported, wantReason: "unsupported"},
		{name: "other", err: errors.New("hook install failed"), wantReason: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, rec, _, _ := newTestApp(t)
			logs := testutil.CaptureLogBuffer(t, slog.LevelError)
			stubInputHook(t, &fakeHook{err: tt.err})
			startTestCapture(t, app)

			if !testutil.WaitForCondition(t, 2*time.Second, func() bool {
				return len(rec.named(captureUnavailableEvent)) == 1
			}) {
				t.Fatal("capture:unavailable not emitted")
			}
			payload, ok := rec.named(captureUnavailableEvent)[0].payload.(map[string]string)
			if !ok || payload["reason"] != tt.wantReason {
				t.Fatalf("payload = %#v, want reason %q", rec.named(captureUnavailableEvent)[0].payload, tt.wantReason)
			}
			status := app.GetCaptureStatus()
			if status.Available || status.Error == "" {
				t.Fatalf("status = %+v, want unavailable with error", status)
			}
			if !logs.Contains("reason=" + tt.wantReason) {
				t.Fatalf("log output = %q, want reason=%s", logs.String(), tt.wantReason)
			}
		})
	}
}

func TestStartCaptureHookStreamEnd(t *testing.T) {
	app, rec, _, _ := newTestApp(t)
	stubInputHook(t, &fakeHook{})
	startTestCapture(t, app)

	if !testutil.WaitForCondition(t, 2*time.Second, func() bool {
		return len(rec.named(captureUnavailableEvent)) == 1
	}) {
		t.Fatal("capture:unavailable not emitted after hook stream ended")
	}
}

func TestTogglePauseRoundTrip(t *testing.T) {
	app, rec, _, _ := newTestApp(t)
	stubInputHook(t, &fakeHook{block: true})
	startTestCapture(t, app)

	paused, err := app.TogglePause()
	if err != nil || !paused {
		t.Fatalf("TogglePause() = %v, %v; want true, nil", paused, err)
	}
	if !app.IsPaused() {
		t.Fatal("IsPaused() = false after pause")
	}
	paused, err = app.TogglePause()
	if err != nil || paused {
		t.Fatalf("TogglePause() = %v, %v; want false, nil", paused, err)
	}

	var system []string
	for _, ev := range rec.named(inputEventName) {
		if e := ev.payload.(capture.Event); e.Kind == capture.KindSystem {
			system = append(system, e.Label)
		}
	}
	if len(system) != 2 || system[0] != "Capture Paused" || system[1] != "Capture Resumed" {
		t.Fatalf("system events = %v", system)
	}
	if n := len(rec.named(captureStateEvent)); n != 2 {
		t.Fatalf("capture:state emitted %d times, want 2", n)
	}
}

func TestPauseChordEmitsCaptureState(t *testing.T) {
	app, rec, _, _ := newTestApp(t)
	stubInputHook(t, &fakeHook{
		block: true,
		events: []capture.RawEvent{
			capture.KeyPress(capture.ControlLeft),
			capture.KeyPress(capture.Alt),
			capture.KeyPress(capture.KeyP),
		},
	})
	startTestCapture(t, app)

	if !testutil.WaitForCondition(t, 2*time.Second, func() bool {
		return len(rec.named(captureStateEvent)) >= 1
	}) {
		t.Fatal("capture:state not emitted after Ctrl+Alt+P")
	}
	if !app.IsPaused() {
		t.Fatal("IsPaused() = false after chord")
	}

	// The menu and IPC path must not add a second event for the same flip.
	if _, err := app.TogglePause(); err != nil {
		t.Fatalf("TogglePause() error = %v", err)
	}
	events := rec.named(captureStateEvent)
	if len(events) != 2 {
		t.Fatalf("capture:state emitted %d times, want 2", len(events))
	}
	for i, want := range []bool{true, false} {
		if got := events[i].payload.(map[string]bool)["paused"]; got != want {
			t.Fatalf("event[%d] paused = %v, want %v", i, got, want)
		}
	}
}

func TestStopHookEndsHook(t *testing.T) {
	app, rec, _, _ := newTestApp(t)
	hookDone := make(chan struct{})
	stubInputHook(t, hookFunc(func(ctx context.Context, emit inputhook.EmitFunc) error {
		defer close(hookDone)
		for range 8 {
			emit(capture.KeyPress(capture.ShiftLeft))
		}
		<-ctx.Done()
		return ctx.Err()
	}))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cfg := config.DefaultConfig()
	cfg.RawBufferSize = 1
	app.startCapture(ctx, cfg)

	app.stopHook()
	select {
	case <-hookDone:
	case <-time.After(2 * time.Second):
		t.Fatal("hook still running after stopHook")
	}
	cancel()
	app.shuttingDown.Store(true)
	if !waitWithTimeout(app.bgWG.Wait, 2*time.Second) {
		t.Fatal("capture goroutines did not stop")
	}
	if len(rec.named(captureUnavailableEvent)) != 0 {
		t.Fatal("deliberate hook stop reported as capture failure")
	}
}

func TestTogglePauseWithoutWorker(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	if _, err := app.TogglePause(); !errors.Is(err, capture.ErrWorkerStopped) {
		t.Fatalf("TogglePause() error = %v, want ErrWorkerStopped", err)
	}
}
