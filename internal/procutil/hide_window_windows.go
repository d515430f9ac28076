//go:build windows

package procutil

import (
	"os/exec"
	"syscall"
)

// HideWindow stops cmd.exe from showing a console window while it hands a
// file to its registered handler.
// Preserves any existing SysProcAttr fields that were set before this call.
func HideWindow(cmd *exec.Cmd) {
	if cmd == nil {
		return
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
}
