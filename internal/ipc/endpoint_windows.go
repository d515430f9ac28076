//go:build windows

package ipc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/user"
	"regexp"
	"strings"
	"time"

	"github.com/Microsoft/go-winio"

	"echocast/internal/userutil"
)

// EndpointEnv overrides the default pipe name. Values must match pipeNamePattern.
const EndpointEnv = "ECHOCAST_PIPE"

var pipeNamePattern = regexp.MustCompile(`(?i)^\\\\\.\\pipe\\echocast-[a-z0-9._-]{1,128}$`)

const defaultPipePrefix = `\\.\pipe\echocast-`

// DefaultEndpoint returns the pipe path to use. A trusted ECHOCAST_PIPE
// override wins; otherwise the name is derived from the current user.
func DefaultEndpoint() string {
	if v, ok := trustedEndpointFromEnv(); ok {
		return v
	}
	return defaultPipePrefix + userutil.CurrentUsername()
}

func trustedEndpointFromEnv() (string, bool) {
	value := strings.TrimSpace(os.Getenv(EndpointEnv))
	if value == "" {
		return "", false
	}
	if !pipeNamePattern.MatchString(value) {
		slog.Warn("[ipc] "+EndpointEnv+" rejected: value does not match allowed pattern", "value", value)
		return "", false
	}
	return value, true
}

// listen creates a Named Pipe listener restricted to the current user. The
// DACL grants full access only to SYSTEM and the current user's SID, so other
// local users cannot connect.
func listen(pipeName string) (net.Listener, error) {
	securityDescriptor, err := pipeSecurityDescriptor()
	if err != nil {
		return nil, err
	}
	return winio.ListenPipe(pipeName, &winio.PipeConfig{
		SecurityDescriptor: securityDescriptor,
		MessageMode:        false,
		InputBufferSize:    int32(maxRequestBytes),
		OutputBufferSize:   int32(maxResponseBytes),
	})
}

func dial(pipeName string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(pipeName, &timeout)
}

// Named pipes vanish with their last handle.
func cleanupEndpoint(string) {}

var validSIDPattern = regexp.MustCompile(`^S-1(-\d+)+$`)

func pipeSecurityDescriptor() (string, error) {
	current, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolve current user: %w", err)
	}
	sid := strings.TrimSpace(current.Uid)
	if sid == "" {
		return "", errors.New("current user SID is unavailable")
	}
	if !validSIDPattern.MatchString(sid) {
		return "", fmt.Errorf("current user SID has unexpected format: %s", sid)
	}
	// SDDL: D:P = protected DACL (no inheritance)
	// (A;;GA;;;SY) = full access for SYSTEM
	// (A;;GA;;;%s) = full access for current user SID
	return fmt.Sprintf("D:P(A;;GA;;;SY)(A;;GA;;;%s)", sid), nil
}
