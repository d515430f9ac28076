package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"echocast/internal/capture"
	"echocast/internal/config"
	"echocast/internal/inputhook"
	"echocast/internal/workerutil"
)

// togglePauseTimeout bounds how long a control request waits for the
// worker goroutine.
const togglePauseTimeout = 2 * time.Second

// runSupervised runs fn under panic recovery tied to the app lifecycle.
func (a *App) runSupervised(ctx context.Context, name string, fn func(context.Context)) {
	workerutil.RunWithPanicRecovery(ctx, name, &a.bgWG, fn, workerutil.RecoveryOptions{
		OnPanic: func(worker string, attempt int, _ any) {
			a.emitRuntimeEvent(workerPanicEvent, map[string]any{
				"worker":  worker,
				"attempt": attempt,
			})
		},
		OnFatal: func(worker string, maxRetries int) {
			slog.Error("[DEBUG-PANIC] worker abandoned", "worker", worker, "maxRetries", maxRetries)
			if worker == captureWorkerName {
				a.setCaptureUnavailable(fmt.Errorf("capture worker stopped after %d panics", maxRetries))
				// Nothing drains the raw channel any more; release the devices.
				if a.stopHook != nil {
					a.stopHook()
				}
			}
		},
		IsShutdown: a.shuttingDown.Load,
	})
}

const captureWorkerName = "capture-worker"

// startCapture wires OS hook -> channel -> worker. The worker runs under
// panic recovery; the hook keeps feeding the same channel across restarts
// and normalizer state lives in the Worker, so a restart does not lose held
// modifiers or the pause flag.
func (a *App) startCapture(ctx context.Context, cfg config.Config) {
	size := cfg.RawBufferSize
	if size <= 0 {
		size = config.DefaultConfig().RawBufferSize
	}
	a.rawEvents = make(chan capture.RawEvent, size)
	hookCtx, stopHook := context.WithCancel(ctx)
	a.stopHook = stopHook

	a.runSupervised(ctx, captureWorkerName, func(ctx context.Context) {
		a.worker.Run(ctx, a.rawEvents)
	})

	hook := newInputHookFn()
	emit := inputhook.ChannelEmitter(hookCtx, a.rawEvents, func(capture.RawEvent) {
		if a.rawDropped.Add(1)%1000 == 1 {
			slog.Debug("[capture] raw channel full, dropping events", "dropped", a.rawDropped.Load())
		}
	})

	a.captureState.Store(&captureStatus{Available: true})
	a.bgWG.Go(func() {
		defer stopHook()
		err := hook.Run(hookCtx, emit)
		switch {
		case err == nil || errors.Is(err, context.Canceled):
			slog.Info("[capture] input hook stopped")
			if hookCtx.Err() == nil {
				a.setCaptureUnavailable(errors.New("input hook stream ended"))
			}
		default:
			a.setCaptureUnavailable(err)
		}
	})
}

// setCaptureUnavailable records the failure, logs it once and tells the
// frontend. The app keeps running without events.
func (a *App) setCaptureUnavailable(err error) {
	status := &captureStatus{Available: false, Error: err.Error()}
	a.captureState.Store(status)

	reason := "error"
	switch {
	case errors.Is(err, inputhook.ErrPermissionDenied):
		reason = "permission"
	case errors.Is(err, inputhook.ErrUnsupported):
		reason = "unsupported"
	}
	slog.Error("[capture] input capture unavailable", "reason", reason, "error", err)
	a.emitRuntimeEvent(captureUnavailableEvent, map[string]string{
		"reason":  reason,
		"message": err.Error(),
	})
}

// TogglePause flips capture pause, exactly like the Ctrl+Alt+P chord.
// Returns the new paused state.
func (a *App) TogglePause() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), togglePauseTimeout)
	defer cancel()
	paused, err := a.worker.TogglePause(ctx)
	if err != nil {
		return paused, fmt.Errorf("toggle pause: %w", err)
	}
	return paused, nil
}

// emitCaptureState runs on the worker goroutine after every pause flip,
// including flips from the Ctrl+Alt+P chord.
func (a *App) emitCaptureState(paused bool) {
	slog.Info("[capture] pause state changed", "paused", paused)
	a.emitRuntimeEvent(captureStateEvent, map[string]bool{"paused": paused})
}

// IsPaused reports whether capture is paused.
func (a *App) IsPaused() bool {
	return a.worker.Paused()
}

// CaptureStatus is the Wails-facing view of the capture pipeline.
type CaptureStatus struct {
	Available    bool   `json:"available"`
	Error        string `json:"error,omitempty"`
	Paused       bool   `json:"paused"`
	ClickThrough bool   `json:"click_through"`
	Processed    uint64 `json:"processed"`
	SinkDropped  uint64 `json:"sink_dropped"`
	RawDropped   uint64 `json:"raw_dropped"`
	WSClients    int    `json:"ws_clients"`
	WSDropped    uint64 `json:"ws_dropped"`
	WebSocketURL string `json:"websocket_url"`
	Hotkey       string `json:"hotkey"`
}

// GetCaptureStatus returns a snapshot of pipeline health.
func (a *App) GetCaptureStatus() CaptureStatus {
	state := a.captureState.Load()
	processed, sinkDropped := a.worker.Stats()
	status := CaptureStatus{
		Available:    state.Available,
		Error:        state.Error,
		Paused:       a.worker.Paused(),
		ClickThrough: a.clickThrough.Load(),
		Processed:    processed,
		SinkDropped:  sinkDropped,
		RawDropped:   a.rawDropped.Load(),
	}
	if a.wsHub != nil {
		stats := a.wsHub.Stats()
		status.WSClients = stats.Clients
		status.WSDropped = stats.Dropped
		status.WebSocketURL = a.wsHub.URL()
	}
	if a.hotkeys != nil {
		status.Hotkey = a.hotkeys.ActiveBinding()
	}
	return status
}
