package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"echocast/internal/config"
	"echocast/internal/inputhook"
	"echocast/internal/ipc"
	"echocast/internal/overlay"
	"echocast/internal/wsserver"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

type appRuntimeLogger interface {
	Warningf(context.Context, string, ...interface{})
	Infof(context.Context, string, ...interface{})
	Errorf(context.Context, string, ...interface{})
}

type wailsRuntimeLogger struct{}

func formatRuntimeLogMessage(message string, args ...interface{}) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func (wailsRuntimeLogger) Warningf(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Warn(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogWarningf(ctx, message, args...)
}

func (wailsRuntimeLogger) Infof(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Info(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogInfof(ctx, message, args...)
}

func (wailsRuntimeLogger) Errorf(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Error(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogErrorf(ctx, message, args...)
}

var (
	runtimeEventsEmitFn                            = runtime.EventsEmit
	runtimeLogger                 appRuntimeLogger = wailsRuntimeLogger{}
	runtimeWindowShowFn                            = runtime.WindowShow
	runtimeWindowUnminimiseFn                      = runtime.WindowUnminimise
	runtimeWindowSetAlwaysOnTopFn                  = runtime.WindowSetAlwaysOnTop
	runtimeWindowSetSizeFn                         = runtime.WindowSetSize
	runtimeQuitFn                                  = runtime.Quit
	newInputHookFn                                 = inputhook.New
	checkPermissionFn                              = inputhook.CheckPermission
	requestPermissionFn                            = inputhook.RequestPermission
	setIgnoreCursorEventsFn                        = overlay.SetIgnoreCursorEvents
	newWSHubFn                                     = wsserver.NewHub
	ipcEndpointFn                                  = ipc.DefaultEndpoint
	newConfigWatcherFn                             = config.NewWatcher
)

const (
	shutdownWaitTimeout = 10 * time.Second

	// windowTitle is also how the click-through code finds the native window.
	windowTitle = "EchoCast"
)

// loadInitialConfig resolves and loads the config file before the window is
// created, so geometry and always-on-top come from the user's file.
// Failures are non-fatal: defaults are used and a warning is queued for the UI.
func (a *App) loadInitialConfig() config.Config {
	a.configPath = config.DefaultPath()
	for _, message := range config.ConsumeDefaultPathWarnings() {
		a.addPendingConfigLoadWarning(message)
	}

	cfg, err := config.EnsureFile(a.configPath)
	if err != nil {
		cfg = config.DefaultConfig()
		a.addPendingConfigLoadWarning(
			"Failed to load config file at startup. Running with defaults. Error: " + err.Error(),
		)
		slog.Warn("[WARN-CONFIG] failed to load config", "path", a.configPath, "error", err)
	}
	a.setConfigSnapshot(cfg)
	a.wsOnlyMouseMoves.Store(cfg.IPCMouseMoves)
	return cfg
}

func (a *App) startup(ctx context.Context) {
	a.setRuntimeContext(ctx)

	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancel = cancel

	cfg := a.getConfigSnapshot()

	a.startWebSocketHub(bgCtx, cfg)
	a.startIPCServer(ctx)
	a.startCapture(bgCtx, cfg)
	a.startConfigWatcher(bgCtx)
	a.configureSettingsHotkey(cfg.SettingsHotkey)
	if cfg.ClickThrough {
		if err := a.applyClickThrough(true); err != nil {
			runtimeLogger.Warningf(ctx, "click-through unavailable: %v", err)
		}
	}
	a.flushPendingConfigLoadWarnings()
}

func (a *App) startWebSocketHub(ctx context.Context, cfg config.Config) {
	hub := newWSHubFn(wsserver.HubOptions{
		Addr: net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.WebSocketPort)),
	})
	if err := hub.Start(ctx); err != nil {
		runtimeLogger.Errorf(ctx, "websocket server failed: %v", err)
		a.addPendingConfigLoadWarning(
			"Failed to start the local event stream. Browser sources will not receive events. Error: " + err.Error(),
		)
		return
	}
	a.wsHub = hub
}

func (a *App) startIPCServer(ctx context.Context) {
	server := ipc.NewServer(ipcEndpointFn(), a.newIPCRouter())
	if err := server.Start(); err != nil {
		runtimeLogger.Errorf(ctx, "control channel failed: %v", err)
		return
	}
	a.ipcServer = server
	runtimeLogger.Infof(ctx, "control channel listening: %s", server.Endpoint())
}

func (a *App) startConfigWatcher(ctx context.Context) {
	watcher, err := newConfigWatcherFn(a.configPath, a.handleConfigFileChange,
		config.WithErrorHandler(func(err error) {
			slog.Warn("[WARN-CONFIG] config reload failed, keeping current settings", "error", err)
		}),
	)
	if err != nil {
		slog.Warn("[WARN-CONFIG] config watcher unavailable", "path", a.configPath, "error", err)
		return
	}
	a.cfgWatcher = watcher
	a.runSupervised(ctx, "config-watcher", watcher.Run)
}

func (a *App) shutdown(_ context.Context) {
	a.shuttingDown.Store(true)
	logCtx := a.runtimeContext()

	if a.bgCancel != nil {
		a.bgCancel()
	}

	var errs error
	if a.cfgWatcher != nil {
		errs = multierr.Append(errs, a.cfgWatcher.Close())
	}
	if !waitWithTimeout(a.bgWG.Wait, shutdownWaitTimeout) {
		runtimeLogger.Warningf(logCtx, "timed out waiting for background workers during shutdown")
	}
	if a.hotkeys != nil {
		errs = multierr.Append(errs, a.hotkeys.Stop())
	}
	if a.ipcServer != nil {
		errs = multierr.Append(errs, a.ipcServer.Stop())
	}
	if a.wsHub != nil {
		errs = multierr.Append(errs, a.wsHub.Stop())
	}
	for _, err := range multierr.Errors(errs) {
		runtimeLogger.Warningf(logCtx, "shutdown: %v", err)
	}
}

func waitWithTimeout(waitFn func(), timeout time.Duration) bool {
	// The waiting goroutine may outlive timeout when waitFn blocks forever;
	// this is only used during process shutdown.
	done := make(chan struct{})
	go func() {
		waitFn()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// configureSettingsHotkey (re)registers the global settings hotkey. An empty
// spec unregisters it.
func (a *App) configureSettingsHotkey(spec string) {
	if a.hotkeys == nil {
		return
	}
	a.hotkeyMu.Lock()
	defer a.hotkeyMu.Unlock()

	logCtx := a.runtimeContext()
	spec = strings.TrimSpace(spec)
	if spec == "" {
		if err := a.hotkeys.Stop(); err != nil {
			runtimeLogger.Warningf(logCtx, "global hotkey unregister failed: %v", err)
		}
		slog.Debug("[hotkey] no settings hotkey configured")
		return
	}
	if err := a.hotkeys.Start(spec, a.toggleSettings); err != nil {
		runtimeLogger.Warningf(logCtx, "global hotkey registration failed: %v", err)
		return
	}
	runtimeLogger.Infof(logCtx, "global hotkey registered: %s", a.hotkeys.ActiveBinding())
}

// toggleSettings asks the frontend to open or close the settings panel.
// Distinct from pause: the overlay keeps capturing while settings are open.
func (a *App) toggleSettings() {
	ctx := a.runtimeContext()
	if ctx == nil {
		slog.Debug("[hotkey] toggle-settings dropped because runtime context is nil")
		return
	}
	a.raiseWindow(ctx)
	a.emitRuntimeEventWithContext(ctx, toggleSettingsEvent, nil)
}

// bringWindowToFront shows and raises the overlay window.
// Used when a second instance signals the first to activate.
func (a *App) bringWindowToFront() {
	ctx := a.runtimeContext()
	if ctx == nil {
		slog.Warn("[ipc] bringWindowToFront dropped because runtime context is nil")
		return
	}
	a.raiseWindow(ctx)
}

func (a *App) raiseWindow(ctx context.Context) {
	runtimeWindowShowFn(ctx)
	runtimeWindowUnminimiseFn(ctx)
	if a.getConfigSnapshot().Window.AlwaysOnTop {
		return
	}
	// Toggling always-on-top raises the window without pinning it.
	runtimeWindowSetAlwaysOnTopFn(ctx, true)
	runtimeWindowSetAlwaysOnTopFn(ctx, false)
}

// quit ends the application from the menu.
func (a *App) quit() {
	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}
	runtimeQuitFn(ctx)
}
