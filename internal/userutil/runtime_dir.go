package userutil

import (
	"os"
	"path/filepath"
	"strings"
)

// RuntimeDir returns the directory for per-user sockets and lock files:
// XDG_RUNTIME_DIR when it names an existing directory, os.TempDir otherwise.
func RuntimeDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); dir != "" && filepath.IsAbs(dir) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return os.TempDir()
}

// RuntimePath joins RuntimeDir with "<app>-<user><suffix>".
func RuntimePath(app, suffix string) string {
	return filepath.Join(RuntimeDir(), app+"-"+CurrentUsername()+suffix)
}
