//go:build !windows

package ipc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"echocast/internal/userutil"
)

// EndpointEnv overrides the default socket path. Values must be absolute
// and name an echocast-*.sock file.
const EndpointEnv = "ECHOCAST_SOCKET"

var socketNamePattern = regexp.MustCompile(`(?i)^echocast-[a-z0-9._-]{1,128}\.sock$`)

// DefaultEndpoint returns the socket path to use. A trusted ECHOCAST_SOCKET
// override wins; otherwise the path lives in the per-user runtime dir.
func DefaultEndpoint() string {
	if v, ok := trustedEndpointFromEnv(); ok {
		return v
	}
	return userutil.RuntimePath("echocast", ".sock")
}

func trustedEndpointFromEnv() (string, bool) {
	value := strings.TrimSpace(os.Getenv(EndpointEnv))
	if value == "" {
		return "", false
	}
	if !filepath.IsAbs(value) || !socketNamePattern.MatchString(filepath.Base(value)) {
		slog.Warn("[ipc] "+EndpointEnv+" rejected: value does not match allowed pattern", "value", value)
		return "", false
	}
	return filepath.Clean(value), true
}

// listen binds a Unix socket readable only by the current user. A stale
// socket file left by a crashed instance is removed first; a live one is
// reported as in use.
func listen(path string) (net.Listener, error) {
	if err := removeStaleSocket(path); err != nil {
		return nil, err
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("restrict socket permissions: %w", err)
	}
	return ln, nil
}

func removeStaleSocket(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("%s exists and is not a socket", path)
	}
	if conn, dialErr := net.DialTimeout("unix", path, 500*time.Millisecond); dialErr == nil {
		conn.Close()
		return fmt.Errorf("%s is in use by another process", path)
	}
	slog.Debug("[ipc] removing stale socket", "path", path)
	return os.Remove(path)
}

func dial(path string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", path, timeout)
}

func cleanupEndpoint(path string) {
	// net.UnixListener normally unlinks on Close; remove any leftover.
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("[ipc] socket cleanup failed", "path", path, "error", err)
	}
}
