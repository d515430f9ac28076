package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.yaml.in/yaml/v3"
)

const (
	maxConfigFileBytes int64 = 1 << 20 // 1MB
	maxRenameRetry           = 10
	// Windows file lock releases (antivirus/indexing) typically settle quickly.
	// Use a short linear backoff: baseDelay * (1..maxRenameRetry).
	renameRetryBaseDelay = 10 * time.Millisecond
	// maxValidPort is the highest TCP port number. Port 0 means "OS auto-assign".
	maxValidPort = 65535

	minWindowSize = 120
	maxWindowSize = 8192

	minRawBufferSize     = 64
	maxRawBufferSize     = 1 << 16
	defaultRawBufferSize = 1024

	// AppDirName is the per-user directory holding config.yaml.
	AppDirName = "echocast"
)

// defaultConfigDirFn is a test seam; tests override it to simulate
// directory-resolution failures in validateConfigPath.
var defaultConfigDirFn = defaultConfigDir
var userHomeDirFn = os.UserHomeDir
var defaultPathWarningState struct {
	mu       sync.Mutex
	messages []string
}

func recordDefaultPathWarning(message string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	defaultPathWarningState.mu.Lock()
	defaultPathWarningState.messages = append(defaultPathWarningState.messages, trimmed)
	defaultPathWarningState.mu.Unlock()
}

// ConsumeDefaultPathWarnings returns and clears path-resolution warnings
// accumulated during DefaultPath() calls.
func ConsumeDefaultPathWarnings() []string {
	defaultPathWarningState.mu.Lock()
	defer defaultPathWarningState.mu.Unlock()
	if len(defaultPathWarningState.messages) == 0 {
		return nil
	}
	out := make([]string, len(defaultPathWarningState.messages))
	copy(out, defaultPathWarningState.messages)
	defaultPathWarningState.messages = nil
	return out
}

// Config is EchoCast runtime configuration.
type Config struct {
	// WebSocketPort is the loopback port of the event stream server.
	// 0 (default) lets the OS assign a free port.
	WebSocketPort int `yaml:"websocket_port" json:"websocket_port"`
	// SettingsHotkey opens the settings panel from anywhere, e.g. "Ctrl+Shift+F12".
	// Empty disables the global hotkey.
	SettingsHotkey string `yaml:"settings_hotkey" json:"settings_hotkey"`
	// ClickThrough makes the overlay ignore mouse input at startup.
	ClickThrough bool `yaml:"click_through" json:"click_through"`
	// IPCMouseMoves routes mousemove events to the WebSocket stream only,
	// keeping the Wails IPC bridge free of high-rate traffic.
	IPCMouseMoves bool `yaml:"ipc_mouse_moves" json:"ipc_mouse_moves"`
	// RawBufferSize is the capacity of the hook-to-worker channel.
	RawBufferSize int `yaml:"raw_buffer_size" json:"raw_buffer_size"`
	Window        WindowConfig `yaml:"window" json:"window"`
}

// WindowConfig holds overlay window geometry.
type WindowConfig struct {
	Width       int  `yaml:"width" json:"width"`
	Height      int  `yaml:"height" json:"height"`
	AlwaysOnTop bool `yaml:"always_on_top" json:"always_on_top"`
}

// DefaultConfig returns default values.
func DefaultConfig() Config {
	return Config{
		SettingsHotkey: "Ctrl+Shift+F12",
		IPCMouseMoves:  true,
		RawBufferSize:  defaultRawBufferSize,
		Window: WindowConfig{
			Width:       480,
			Height:      320,
			AlwaysOnTop: true,
		},
	}
}

// DefaultPath resolves the config file path, preferring LOCALAPPDATA over
// APPDATA, falling back to ~/.config when both are unset, and then to
// os.TempDir() if the home directory cannot be resolved.
func DefaultPath() string {
	base := strings.TrimSpace(os.Getenv("LOCALAPPDATA"))
	if base == "" {
		base = strings.TrimSpace(os.Getenv("APPDATA"))
	}
	if base == "" {
		home, err := userHomeDirFn()
		if err != nil {
			slog.Warn("[WARN-CONFIG] using temp dir as config path fallback", "error", err)
			recordDefaultPathWarning(
				"Config path fallback: failed to resolve LOCALAPPDATA/APPDATA/home directory. Using temp directory; settings persistence may be limited.",
			)
			base = os.TempDir()
		} else {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppDirName, "config.yaml")
}

// Load reads config file. If file does not exist, defaults are returned.
// Out-of-range values fall back to defaults with a warning.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, errors.New("config path required")
	}

	raw, err := readLimitedFile(path, maxConfigFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		slog.Warn("[WARN-CONFIG] failed to parse config, using defaults", "path", path, "error", err)
		return DefaultConfig(), err
	}

	// A window section without always_on_top must not turn the default off.
	hasAlwaysOnTop, probeErr := probeAlwaysOnTop(raw)
	if probeErr != nil {
		slog.Warn("[WARN-CONFIG] failed to probe window.always_on_top, preserving parsed value", "error", probeErr)
	} else if !hasAlwaysOnTop {
		cfg.Window.AlwaysOnTop = DefaultConfig().Window.AlwaysOnTop
	}

	applyDefaultsAndValidate(&cfg)
	return cfg, nil
}

// EnsureFile writes default config if missing and returns loaded config.
func EnsureFile(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if _, err := Save(path, cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Clone returns a copy of cfg. Config holds no reference types today; Clone
// keeps callers independent of that.
func Clone(src Config) Config {
	return src
}

// Save validates cfg, fills defaults, and atomically writes to path.
// Returns the normalized config that was actually written to disk.
func Save(path string, cfg Config) (Config, error) {
	normalizedPath, err := validateConfigPath(path)
	if err != nil {
		return cfg, err
	}
	applyDefaultsAndValidate(&cfg)

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return cfg, fmt.Errorf("save config: marshal: %w", err)
	}
	if err := atomicWrite(normalizedPath, raw); err != nil {
		return cfg, err
	}
	slog.Debug("[DEBUG-CONFIG] config saved", "path", path)
	return cfg, nil
}

// atomicWrite writes config data using temp-file + rename to avoid partial
// writes and retries rename on Windows to tolerate transient file locks.
func atomicWrite(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save config: mkdir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("save config: create temp: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			if closeErr := tmpFile.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
				slog.Warn("[WARN-CONFIG] failed to close temp file", "path", tmpPath, "error", closeErr)
			}
		}
		if err != nil {
			if removeErr := os.Remove(tmpPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				slog.Warn("[WARN-CONFIG] failed to remove temp file", "path", tmpPath, "error", removeErr)
			}
		}
	}()

	if err = tmpFile.Chmod(0o600); err != nil {
		return fmt.Errorf("save config: chmod temp: %w", err)
	}
	if _, err = tmpFile.Write(data); err != nil {
		return fmt.Errorf("save config: write: %w", err)
	}
	if err = tmpFile.Sync(); err != nil {
		return fmt.Errorf("save config: sync: %w", err)
	}
	err = tmpFile.Close()
	tmpFile = nil
	if err != nil {
		return fmt.Errorf("save config: close: %w", err)
	}

	if err = renameFileWithRetry(tmpPath, path); err != nil {
		return fmt.Errorf("save config: rename: %w", err)
	}
	return nil
}

// validateConfigPath normalizes path and enforces that config writes stay
// inside the default config directory.
func validateConfigPath(path string) (string, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return "", errors.New("config path required")
	}
	absolutePath, err := filepath.Abs(trimmedPath)
	if err != nil {
		return "", fmt.Errorf("save config: resolve path: %w", err)
	}

	expectedDir, err := defaultConfigDirFn()
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	absoluteExpectedDir, err := filepath.Abs(expectedDir)
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	if !pathWithinDir(absolutePath, absoluteExpectedDir) {
		return "", fmt.Errorf("save config: path outside config directory: %q", absolutePath)
	}
	return absolutePath, nil
}

func defaultConfigDir() (string, error) {
	return filepath.Dir(DefaultPath()), nil
}

// pathWithinDir blocks directory traversal by ensuring path is under dir.
func pathWithinDir(path string, dir string) bool {
	relativePath, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	if relativePath == "." {
		return true
	}
	if relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(os.PathSeparator)) {
		return false
	}
	return !filepath.IsAbs(relativePath)
}

// applyDefaultsAndValidate fills missing defaults and clamps cfg in place.
// Invalid values never prevent startup; they are logged and replaced.
func applyDefaultsAndValidate(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.WebSocketPort < 0 || cfg.WebSocketPort > maxValidPort {
		slog.Warn("[WARN-CONFIG] websocket_port out of valid range (0-65535), falling back to 0 (auto-assign)",
			"configured", cfg.WebSocketPort)
		cfg.WebSocketPort = 0
	}

	cfg.SettingsHotkey = strings.TrimSpace(cfg.SettingsHotkey)

	if cfg.RawBufferSize == 0 {
		cfg.RawBufferSize = defaults.RawBufferSize
	} else if cfg.RawBufferSize < minRawBufferSize || cfg.RawBufferSize > maxRawBufferSize {
		slog.Warn("[WARN-CONFIG] raw_buffer_size out of range, using default",
			"configured", cfg.RawBufferSize, "min", minRawBufferSize, "max", maxRawBufferSize)
		cfg.RawBufferSize = defaults.RawBufferSize
	}

	cfg.Window.Width = clampWindowSize("window.width", cfg.Window.Width, defaults.Window.Width)
	cfg.Window.Height = clampWindowSize("window.height", cfg.Window.Height, defaults.Window.Height)
}

func clampWindowSize(field string, value, fallback int) int {
	if value == 0 {
		return fallback
	}
	if value < minWindowSize || value > maxWindowSize {
		slog.Warn("[WARN-CONFIG] window size out of range, using default",
			"field", field, "configured", value, "default", fallback)
		return fallback
	}
	return value
}

type rawAlwaysOnTopProbe struct {
	Window *struct {
		AlwaysOnTop *bool `yaml:"always_on_top"`
	} `yaml:"window"`
}

func probeAlwaysOnTop(raw []byte) (bool, error) {
	var probe rawAlwaysOnTopProbe
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return false, err
	}
	if probe.Window == nil {
		return false, nil
	}
	return probe.Window.AlwaysOnTop != nil, nil
}

func readLimitedFile(path string, maxBytes int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limited := io.LimitReader(file, maxBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", maxBytes)
	}
	return raw, nil
}

func renameFileWithRetry(sourcePath string, targetPath string) error {
	var lastErr error
	for attempt := range maxRenameRetry {
		err := os.Rename(sourcePath, targetPath)
		if err == nil {
			return nil
		}
		lastErr = err
		if runtime.GOOS != "windows" {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * renameRetryBaseDelay)
	}
	return lastErr
}
