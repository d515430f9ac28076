//go:build windows

package procutil

import (
	"os/exec"
	"syscall"
	"testing"
)

func openerCommand() *exec.Cmd {
	return exec.Command("cmd", "/c", "start", "", `C:\Users\tester\AppData\Local\echocast\config.yaml`)
}

func TestHideWindow(t *testing.T) {
	tests := []struct {
		name      string
		attr      *syscall.SysProcAttr
		wantFlags uint32
	}{
		{name: "nil attr", attr: nil},
		{name: "keeps creation flags", attr: &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}, wantFlags: syscall.CREATE_NEW_PROCESS_GROUP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := openerCommand()
			cmd.SysProcAttr = tt.attr

			HideWindow(cmd)
			HideWindow(cmd)

			if cmd.SysProcAttr == nil || !cmd.SysProcAttr.HideWindow {
				t.Fatal("HideWindow not set")
			}
			if cmd.SysProcAttr.CreationFlags != tt.wantFlags {
				t.Errorf("CreationFlags = %d, want %d", cmd.SysProcAttr.CreationFlags, tt.wantFlags)
			}
		})
	}
}

func TestHideWindowNilCmd(t *testing.T) {
	HideWindow(nil)
}
