// Package procutil holds helpers for child processes started by the app,
// such as the OS handler that opens config.yaml. HideWindow keeps a console
// window from flashing when that handler is launched through cmd.exe.
package procutil
