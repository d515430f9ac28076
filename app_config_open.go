package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	goruntime "runtime"

	"echocast/internal/config"
	"echocast/internal/procutil"
)

var newOpenCommandFn = defaultOpenCommand

func defaultOpenCommand(path string) *exec.Cmd {
	switch goruntime.GOOS {
	case "windows":
		// The empty argument is start's window title.
		return exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		return exec.Command("open", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

// OpenConfigFile opens config.yaml with the OS default handler, creating it
// with defaults first if it does not exist yet. External edits are picked up
// by the config watcher.
func (a *App) OpenConfigFile() error {
	path := a.configPath
	if path == "" {
		return errors.New("open config: path not resolved")
	}
	if _, err := config.EnsureFile(path); err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	cmd := newOpenCommandFn(path)
	procutil.HideWindow(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Debug("[DEBUG-CONFIG] config opener exited with error", "error", err)
		}
	}()
	return nil
}
