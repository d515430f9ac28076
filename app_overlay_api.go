package main

import (
	"fmt"
	"log/slog"
)

// CheckAccessibilityPermission reports whether global input capture is
// permitted. Always true where the OS has no such permission.
func (a *App) CheckAccessibilityPermission() bool {
	return checkPermissionFn()
}

// RequestAccessibilityPermission triggers the OS prompt where one exists and
// returns the resulting state. Capture still needs an app restart after the
// user grants access on macOS.
func (a *App) RequestAccessibilityPermission() bool {
	granted := requestPermissionFn()
	slog.Info("[capture] accessibility permission requested", "granted", granted)
	return granted
}

// SetIgnoreCursorEvents toggles click-through on the overlay window.
func (a *App) SetIgnoreCursorEvents(ignore bool) error {
	return a.applyClickThrough(ignore)
}

// IsClickThrough reports the current click-through state.
func (a *App) IsClickThrough() bool {
	return a.clickThrough.Load()
}

func (a *App) applyClickThrough(ignore bool) error {
	if err := setIgnoreCursorEventsFn(windowTitle, ignore); err != nil {
		return fmt.Errorf("set click-through %t: %w", ignore, err)
	}
	if a.clickThrough.Swap(ignore) != ignore {
		slog.Info("[overlay] click-through changed", "enabled", ignore)
		a.emitRuntimeEvent(clickThroughChangedEvent, map[string]bool{"enabled": ignore})
	}
	return nil
}
