package main

import (
	"log/slog"
	"time"

	"echocast/internal/config"
)

type configUpdatedEvent struct {
	Config             config.Config `json:"config"`
	Version            uint64        `json:"version"`
	UpdatedAtUnixMilli int64         `json:"updated_at_unix_milli"`
	// Source is "ui" for SaveConfig and "file" for external edits.
	Source string `json:"source"`
}

// GetConfig returns loaded config.
func (a *App) GetConfig() config.Config {
	return a.getConfigSnapshot()
}

// GetConfigAndFlushWarnings returns loaded config and emits any pending startup warnings.
func (a *App) GetConfigAndFlushWarnings() config.Config {
	a.flushPendingConfigLoadWarnings()
	return a.getConfigSnapshot()
}

// GetConfigPath returns the config file location for "open in editor" actions.
func (a *App) GetConfigPath() string {
	return a.configPath
}

func (a *App) flushPendingConfigLoadWarnings() {
	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}
	if warning := a.consumePendingConfigLoadWarning(); warning != "" {
		a.emitRuntimeEventWithContext(ctx, configLoadFailedEvent, map[string]string{
			"message": warning,
		})
	}
}

// SaveConfig validates and persists cfg to disk, then applies it live.
// The config:updated event carries the normalized config.
func (a *App) SaveConfig(cfg config.Config) error {
	previous := a.getConfigSnapshot()
	event, err := a.saveConfigWithLock(cfg)
	if err != nil {
		return err
	}
	a.applyRuntimeConfig(previous, event.Config)
	// Emitted outside cfgSaveMu. Consumers treat the highest Version as authoritative.
	a.emitRuntimeEvent(configUpdatedEventName, event)
	return nil
}

// saveConfigWithLock persists cfg, updates the in-memory snapshot, and bumps event version under cfgSaveMu.
func (a *App) saveConfigWithLock(cfg config.Config) (configUpdatedEvent, error) {
	a.cfgSaveMu.Lock()
	defer a.cfgSaveMu.Unlock()

	normalized, err := config.Save(a.configPath, cfg)
	if err != nil {
		return configUpdatedEvent{}, err
	}
	a.setConfigSnapshot(normalized)
	return a.newConfigUpdatedEvent(normalized, "ui"), nil
}

func (a *App) newConfigUpdatedEvent(cfg config.Config, source string) configUpdatedEvent {
	return configUpdatedEvent{
		Config:             config.Clone(cfg),
		Version:            a.configEventVersion.Add(1),
		UpdatedAtUnixMilli: time.Now().UnixMilli(),
		Source:             source,
	}
}

// handleConfigFileChange applies a config reloaded by the file watcher.
// Our own SaveConfig also triggers the watcher; an unchanged config is ignored.
func (a *App) handleConfigFileChange(cfg config.Config) {
	a.cfgSaveMu.Lock()
	previous := a.getConfigSnapshot()
	if previous == cfg {
		a.cfgSaveMu.Unlock()
		slog.Debug("[DEBUG-CONFIG] config file changed without effective difference")
		return
	}
	a.setConfigSnapshot(cfg)
	event := a.newConfigUpdatedEvent(cfg, "file")
	a.cfgSaveMu.Unlock()

	slog.Info("[DEBUG-CONFIG] config reloaded from file", "path", a.configPath, "version", event.Version)
	a.applyRuntimeConfig(previous, cfg)
	a.emitRuntimeEvent(configUpdatedEventName, event)
}

// applyRuntimeConfig pushes the settings that can change without a restart.
// websocket_port and raw_buffer_size apply on the next launch.
func (a *App) applyRuntimeConfig(previous, next config.Config) {
	a.wsOnlyMouseMoves.Store(next.IPCMouseMoves)

	if previous.SettingsHotkey != next.SettingsHotkey {
		a.configureSettingsHotkey(next.SettingsHotkey)
	}
	if previous.ClickThrough != next.ClickThrough {
		if err := a.applyClickThrough(next.ClickThrough); err != nil {
			slog.Warn("[WARN-CONFIG] click-through update failed", "error", err)
		}
	}

	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}
	if previous.Window.AlwaysOnTop != next.Window.AlwaysOnTop {
		runtimeWindowSetAlwaysOnTopFn(ctx, next.Window.AlwaysOnTop)
	}
	if previous.Window.Width != next.Window.Width || previous.Window.Height != next.Window.Height {
		runtimeWindowSetSizeFn(ctx, next.Window.Width, next.Window.Height)
	}
	if previous.WebSocketPort != next.WebSocketPort || previous.RawBufferSize != next.RawBufferSize {
		slog.Info("[DEBUG-CONFIG] websocket_port/raw_buffer_size change takes effect after restart")
	}
}
