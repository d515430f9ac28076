package main

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"echocast/internal/capture"
	"echocast/internal/config"
	"echocast/internal/hotkeys"
	"echocast/internal/ipc"
	"echocast/internal/sessionlog"
	"echocast/internal/wsserver"
)

// App is the Wails-bound application service.
type App struct {
	// Runtime context lifecycle.
	ctx   context.Context
	ctxMu sync.RWMutex

	// Configuration state and startup warnings.
	// Lock ordering (outer -> inner):
	//   cfgSaveMu -> cfgMu
	//
	// Independent locks: ctxMu, startupWarnMu, hotkeyMu.
	cfgMu              sync.RWMutex
	cfgSaveMu          sync.Mutex
	configEventVersion atomic.Uint64
	cfg                config.Config
	configPath         string
	startupWarnMu      sync.Mutex
	configLoadWarnings []string

	// Capture pipeline. worker is created in NewApp so IPC and menu handlers
	// can reach it before startup finishes; it only processes events once
	// startCapture runs it.
	worker       *capture.Worker
	rawEvents    chan capture.RawEvent
	rawDropped   atomic.Uint64
	captureState atomic.Pointer[captureStatus]

	// Backend services. Set once during startup before any reader goroutine
	// starts and never reassigned; nil when the service failed to start.
	wsHub      *wsserver.Hub
	ipcServer  *ipc.Server
	cfgWatcher *config.Watcher
	hotkeys    *hotkeys.Manager
	hotkeyMu   sync.Mutex

	diagLog *sessionlog.Ring

	clickThrough atomic.Bool
	// wsOnlyMouseMoves mirrors config.IPCMouseMoves so the sink does not
	// clone the config on every mouse move.
	wsOnlyMouseMoves atomic.Bool
	shuttingDown atomic.Bool // set at the start of shutdown(); checked by worker recovery loops

	// Background worker cancellation/waits.
	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup

	// stopHook cancels only the OS hook; set by startCapture.
	stopHook context.CancelFunc
}

// captureStatus is the last known state of the OS input hook.
type captureStatus struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// NewApp creates the app service.
func NewApp() *App {
	a := &App{
		hotkeys: hotkeys.NewManager(),
	}
	a.worker = capture.NewWorker(capture.SinkFunc(a.emitInputEvent), nil,
		capture.WithPauseHandler(a.emitCaptureState))
	a.diagLog = sessionlog.NewRing(sessionlog.DefaultCapacity, sessionlog.DefaultNotifyInterval, func() {
		a.emitRuntimeEvent(diagnosticLogUpdatedEvent, nil)
	})
	a.captureState.Store(&captureStatus{})
	return a
}

// GetWebSocketURL returns the loopback event stream URL for browser sources
// and the overlay webview. Returns empty string if the server is not running.
func (a *App) GetWebSocketURL() string {
	if a.wsHub == nil {
		slog.Debug("[WS] wsHub is nil, WebSocket URL unavailable")
		return ""
	}
	return a.wsHub.URL()
}
