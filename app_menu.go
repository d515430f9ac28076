package main

import (
	"log/slog"
	goruntime "runtime"

	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
)

// buildAppMenu creates the application menu. Settings and pause are separate
// items: opening settings never pauses capture.
//
// The pause item has no accelerator. Ctrl+Alt+P is already the in-stream
// pause chord and an accelerator would toggle twice while the overlay is focused.
func buildAppMenu(app *App) *menu.Menu {
	appMenu := menu.NewMenu()
	if goruntime.GOOS == "darwin" {
		appMenu.Append(menu.AppMenu())
		appMenu.Append(menu.EditMenu())
	}

	sub := appMenu.AddSubmenu(windowTitle)
	sub.AddText("Settings", keys.CmdOrCtrl(","), func(*menu.CallbackData) {
		app.toggleSettings()
	})
	sub.AddText("Open Config File", nil, func(*menu.CallbackData) {
		if err := app.OpenConfigFile(); err != nil {
			slog.Warn("[DEBUG-CONFIG] open config file failed", "error", err)
		}
	})
	sub.AddText("Pause / Resume Capture", nil, func(*menu.CallbackData) {
		if _, err := app.TogglePause(); err != nil {
			slog.Warn("[capture] pause toggle from menu failed", "error", err)
		}
	})
	sub.AddSeparator()
	sub.AddText("Quit", keys.CmdOrCtrl("q"), func(*menu.CallbackData) {
		app.quit()
	})
	return appMenu
}
