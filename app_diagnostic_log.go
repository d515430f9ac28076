package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"echocast/internal/sessionlog"
)

// logLevelEnv selects the stderr log level ("debug", "info", "warn", "error").
const logLevelEnv = "ECHOCAST_LOG_LEVEL"

var diagnosticLogOnce sync.Once

// initDiagnosticLog installs the process logger: text to stderr, with Warn+
// records teed into the in-memory diagnostic log. Installed once per process.
//
// The base is a fresh TextHandler, not slog.Default().Handler(): wrapping the
// log-package bridge and passing it back to SetDefault loops through log.Output.
func (a *App) initDiagnosticLog() {
	diagnosticLogOnce.Do(func() {
		base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevelFromEnv()})
		slog.SetDefault(slog.New(sessionlog.NewTeeHandler(base, slog.LevelWarn, a.diagLog)))
	})
}

func logLevelFromEnv() slog.Level {
	var level slog.Level
	raw := strings.TrimSpace(os.Getenv(logLevelEnv))
	if raw == "" {
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// GetDiagnosticLog returns buffered warnings and errors, oldest first.
// The frontend calls this after an app:diagnostic-log-updated ping; pings are
// throttled, so the snapshot is always complete.
func (a *App) GetDiagnosticLog() []sessionlog.Entry {
	return a.diagLog.Snapshot()
}

// ClearDiagnosticLog empties the diagnostic log view.
func (a *App) ClearDiagnosticLog() {
	a.diagLog.Clear()
	a.emitRuntimeEvent(diagnosticLogUpdatedEvent, nil)
}
