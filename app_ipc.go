package main

import (
	"encoding/json"
	"log/slog"
	"strings"

	"echocast/internal/ipc"
)

// newIPCRouter maps control channel commands onto App operations. Handlers
// run on the IPC server's connection goroutines.
func (a *App) newIPCRouter() *ipc.Router {
	router := ipc.NewRouter()
	router.Handle(ipc.CmdActivateWindow, func([]string) ipc.Response {
		a.bringWindowToFront()
		return ipc.Success("")
	})
	router.Handle(ipc.CmdTogglePause, func([]string) ipc.Response {
		paused, err := a.TogglePause()
		if err != nil {
			return ipc.Failure("%v", err)
		}
		if paused {
			return ipc.Success("paused\n")
		}
		return ipc.Success("resumed\n")
	})
	router.Handle(ipc.CmdToggleSettings, func([]string) ipc.Response {
		a.toggleSettings()
		return ipc.Success("")
	})
	router.Handle(ipc.CmdSetClickThrough, a.handleSetClickThroughCommand)
	router.Handle(ipc.CmdStatus, func([]string) ipc.Response {
		raw, err := json.Marshal(a.GetCaptureStatus())
		if err != nil {
			return ipc.Failure("encode status: %v", err)
		}
		return ipc.Success(string(raw) + "\n")
	})
	return router
}

func (a *App) handleSetClickThroughCommand(args []string) ipc.Response {
	if len(args) != 1 {
		return ipc.Failure("usage: %s on|off", ipc.CmdSetClickThrough)
	}
	var ignore bool
	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "on", "true", "1":
		ignore = true
	case "off", "false", "0":
		ignore = false
	default:
		return ipc.Failure("usage: %s on|off", ipc.CmdSetClickThrough)
	}
	if err := a.applyClickThrough(ignore); err != nil {
		slog.Warn("[ipc] set-click-through failed", "error", err)
		return ipc.Failure("%v", err)
	}
	return ipc.Success("")
}
