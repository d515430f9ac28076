package main

import (
	"context"
	"errors"
	"log/slog"

	"echocast/internal/capture"
)

const (
	// inputEventName carries every normalized capture.Event to the overlay.
	inputEventName            = "input-event"
	toggleSettingsEvent       = "toggle-settings"
	captureUnavailableEvent   = "capture:unavailable"
	captureStateEvent         = "capture:state"
	configUpdatedEventName    = "config:updated"
	configLoadFailedEvent     = "config:load-failed"
	diagnosticLogUpdatedEvent = "app:diagnostic-log-updated"
	workerPanicEvent          = "app:worker-panic"
	clickThroughChangedEvent  = "overlay:click-through"
)

var errRuntimeNotReady = errors.New("runtime context is not ready")

// emitRuntimeEvent emits via the app context and delegates to emitRuntimeEventWithContext.
func (a *App) emitRuntimeEvent(name string, payload any) {
	a.emitRuntimeEventWithContext(a.runtimeContext(), name, payload)
}

// emitRuntimeEventWithContext emits a runtime event only when ctx is non-nil.
// Prefer this helper for best-effort contexts that may not be initialized yet.
func (a *App) emitRuntimeEventWithContext(ctx context.Context, name string, payload any) {
	if ctx == nil {
		slog.Debug("[EVENT] runtime event dropped because app context is nil", "event", name)
		return
	}
	runtimeEventsEmitFn(ctx, name, payload)
}

// emitInputEvent is the capture worker's sink. Events go to every WebSocket
// subscriber and to the Wails frontend; mouse moves skip the Wails bridge
// when ipc_mouse_moves is set and the WebSocket stream is up.
// Called only from the worker goroutine.
func (a *App) emitInputEvent(ev capture.Event) error {
	var wsErr error
	wsUp := a.wsHub != nil
	if wsUp {
		wsErr = a.wsHub.Broadcast(ev)
	}

	if ev.Kind == capture.KindMouseMove && wsUp && a.wsOnlyMouseMoves.Load() {
		return wsErr
	}

	ctx := a.runtimeContext()
	if ctx == nil {
		return errors.Join(wsErr, errRuntimeNotReady)
	}
	runtimeEventsEmitFn(ctx, inputEventName, ev)
	return wsErr
}
