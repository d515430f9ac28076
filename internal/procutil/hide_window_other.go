//go:build !windows

package procutil

import "os/exec"

// HideWindow does nothing outside Windows; open and xdg-open have no console.
func HideWindow(_ *exec.Cmd) {}
