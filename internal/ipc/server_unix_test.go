//go:build !windows

package ipc

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// shortSocketPath keeps socket paths under the sun_path limit (104 bytes on macOS).
func shortSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "ec")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "echocast-test.sock")
}

func startTestServer(t *testing.T, router CommandExecutor) *Server {
	t.Helper()
	srv := NewServer(shortSocketPath(t), router)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if err := srv.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})
	return srv
}

func TestServerRoundTrip(t *testing.T) {
	router := NewRouter()
	router.Handle(CmdStatus, func([]string) Response { return Success(`{"paused":false}`) })
	router.Handle(CmdSetClickThrough, func(args []string) Response {
		if len(args) != 1 {
			return Failure("usage: set-click-through on|off")
		}
		return Success(args[0])
	})
	srv := startTestServer(t, router)

	resp, err := Send(srv.Endpoint(), Request{Command: CmdStatus})
	if err != nil {
		t.Fatalf("Send(status) error = %v", err)
	}
	if !resp.OK() || resp.Stdout != `{"paused":false}` {
		t.Fatalf("Send(status) = %+v", resp)
	}

	resp, err = Send(srv.Endpoint(), Request{Command: CmdSetClickThrough})
	if err != nil {
		t.Fatalf("Send(set-click-through) error = %v", err)
	}
	if resp.OK() || !strings.Contains(resp.Stderr, "usage") {
		t.Fatalf("Send(set-click-through) = %+v, want usage failure", resp)
	}
}

func TestServerRejectsInvalidRequest(t *testing.T) {
	srv := startTestServer(t, NewRouter())

	conn, err := net.Dial("unix", srv.Endpoint())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("not json\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	resp, err := decodeResponse(buf[:n])
	if err != nil {
		t.Fatalf("decodeResponse() error = %v", err)
	}
	if resp.ExitCode != 1 || !strings.Contains(resp.Stderr, "invalid request") {
		t.Fatalf("response = %+v, want invalid request", resp)
	}
}

func TestServerStartTwiceFails(t *testing.T) {
	srv := startTestServer(t, NewRouter())
	if err := srv.Start(); err == nil {
		t.Fatal("second Start() expected error")
	}
}

func TestServerRequiresRouter(t *testing.T) {
	srv := NewServer(shortSocketPath(t), nil)
	if err := srv.Start(); err == nil {
		t.Fatal("Start() without router expected error")
	}
}

func TestListenRefusesLiveSocket(t *testing.T) {
	srv := startTestServer(t, NewRouter())
	second := NewServer(srv.Endpoint(), NewRouter())
	if err := second.Start(); err == nil {
		_ = second.Stop()
		t.Fatal("second server on live socket started")
	}
}

func TestListenReplacesStaleSocket(t *testing.T) {
	path := shortSocketPath(t)
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	// Leave the socket file behind without a listener.
	ln.(*net.UnixListener).SetUnlinkOnClose(false)
	ln.Close()

	srv := NewServer(path, NewRouter())
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() over stale socket error = %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("socket file still present after Stop: %v", err)
	}
}

func TestListenRefusesRegularFile(t *testing.T) {
	path := shortSocketPath(t)
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := listen(path); err == nil {
		t.Fatal("listen() over regular file expected error")
	}
}

func TestSendWithoutServerIsConnectionError(t *testing.T) {
	_, err := Send(shortSocketPath(t), Request{Command: CmdStatus})
	if err == nil {
		t.Fatal("Send() without server expected error")
	}
	if !IsConnectionError(err) {
		t.Fatalf("IsConnectionError(%v) = false, want true", err)
	}
}

func TestDefaultEndpoint(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	t.Setenv("USERNAME", "")
	t.Setenv("USER", "tester")

	tests := []struct {
		name string
		env  string
		want string
	}{
		{name: "default", env: "", want: filepath.Join(dir, "echocast-tester.sock")},
		{name: "trusted override", env: "/run/user/1000/echocast-ci.sock", want: "/run/user/1000/echocast-ci.sock"},
		{name: "relative override rejected", env: "echocast-ci.sock", want: filepath.Join(dir, "echocast-tester.sock")},
		{name: "foreign name rejected", env: "/tmp/other.sock", want: filepath.Join(dir, "echocast-tester.sock")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EndpointEnv, tt.env)
			if got := DefaultEndpoint(); got != tt.want {
				t.Fatalf("DefaultEndpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}
