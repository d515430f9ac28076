package main

import (
	"bytes"
	"errors"
	"net"
	"reflect"
	"strings"
	"testing"

	"echocast/internal/ipc"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantReq  ipc.Request
		wantOpts cliOptions
		wantErr  string
	}{
		{name: "status", args: []string{"status"}, wantReq: ipc.Request{Command: ipc.CmdStatus, Args: []string{}}},
		{name: "pause", args: []string{"pause"}, wantReq: ipc.Request{Command: ipc.CmdTogglePause, Args: []string{}}},
		{name: "settings", args: []string{"settings"}, wantReq: ipc.Request{Command: ipc.CmdToggleSettings, Args: []string{}}},
		{name: "activate", args: []string{"activate"}, wantReq: ipc.Request{Command: ipc.CmdActivateWindow, Args: []string{}}},
		{name: "click-through on", args: []string{"click-through", "ON"}, wantReq: ipc.Request{Command: ipc.CmdSetClickThrough, Args: []string{"on"}}},
		{name: "click-through false", args: []string{"click-through", "false"}, wantReq: ipc.Request{Command: ipc.CmdSetClickThrough, Args: []string{"off"}}},
		{
			name:     "endpoint and json flags",
			args:     []string{"--endpoint", "/tmp/echocast-x.sock", "--json", "status"},
			wantReq:  ipc.Request{Command: ipc.CmdStatus, Args: []string{}},
			wantOpts: cliOptions{endpoint: "/tmp/echocast-x.sock", json: true},
		},
		{
			name:     "endpoint equals form",
			args:     []string{"--endpoint=/tmp/echocast-y.sock", "pause"},
			wantReq:  ipc.Request{Command: ipc.CmdTogglePause, Args: []string{}},
			wantOpts: cliOptions{endpoint: "/tmp/echocast-y.sock"},
		},
		{name: "unknown command", args: []string{"record"}, wantErr: "unknown command"},
		{name: "unknown flag", args: []string{"--verbose", "status"}, wantErr: "unknown flag"},
		{name: "missing endpoint value", args: []string{"--endpoint"}, wantErr: "requires a value"},
		{name: "click-through missing arg", args: []string{"click-through"}, wantErr: "expects 1 argument"},
		{name: "click-through bad arg", args: []string{"click-through", "maybe"}, wantErr: "expected on or off"},
		{name: "extra arg", args: []string{"status", "now"}, wantErr: "expects 0 argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, req, err := parseArgs(tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("parseArgs(%v) error = %v, want %q", tt.args, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArgs(%v) error = %v", tt.args, err)
			}
			if req.Command != tt.wantReq.Command || len(req.Args) != len(tt.wantReq.Args) ||
				(len(req.Args) > 0 && !reflect.DeepEqual(req.Args, tt.wantReq.Args)) {
				t.Fatalf("request = %+v, want %+v", req, tt.wantReq)
			}
			if opts != tt.wantOpts {
				t.Fatalf("opts = %+v, want %+v", opts, tt.wantOpts)
			}
		})
	}
}

func TestParseArgsUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"-h"}, {"--help"}, {"--json"}} {
		if _, _, err := parseArgs(args); !errors.Is(err, errUsage) {
			t.Errorf("parseArgs(%v) error = %v, want errUsage", args, err)
		}
	}
}

func TestCommandOrderCoversSpecs(t *testing.T) {
	if len(commandOrder) != len(commandSpecs) {
		t.Fatalf("commandOrder has %d entries, commandSpecs %d", len(commandOrder), len(commandSpecs))
	}
	for _, name := range commandOrder {
		if _, ok := commandSpecs[name]; !ok {
			t.Fatalf("commandOrder entry %q missing from commandSpecs", name)
		}
	}
}

func stubSend(t *testing.T, fn func(string, ipc.Request) (ipc.Response, error)) {
	t.Helper()
	original := sendFn
	sendFn = fn
	t.Cleanup(func() { sendFn = original })
}

func TestRunStatusFormatsFields(t *testing.T) {
	var gotEndpoint string
	stubSend(t, func(endpoint string, req ipc.Request) (ipc.Response, error) {
		gotEndpoint = endpoint
		if req.Command != ipc.CmdStatus {
			t.Errorf("command = %q, want status", req.Command)
		}
		return ipc.Success(`{"paused":true,"available":true}` + "\n"), nil
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"--endpoint", "/tmp/echocast-t.sock", "status"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, stderr=%q", code, stderr.String())
	}
	if gotEndpoint != "/tmp/echocast-t.sock" {
		t.Fatalf("endpoint = %q", gotEndpoint)
	}
	if got, want := stdout.String(), "available: true\npaused: true\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
}

func TestRunStatusJSON(t *testing.T) {
	raw := `{"paused":false}` + "\n"
	stubSend(t, func(string, ipc.Request) (ipc.Response, error) { return ipc.Success(raw), nil })

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--json", "status"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d", code)
	}
	if stdout.String() != raw {
		t.Fatalf("stdout = %q, want raw JSON", stdout.String())
	}
}

func TestRunPropagatesFailure(t *testing.T) {
	stubSend(t, func(string, ipc.Request) (ipc.Response, error) {
		return ipc.Failure("click-through is not supported on this platform"), nil
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"click-through", "on"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "not supported") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunNotRunning(t *testing.T) {
	stubSend(t, func(string, ipc.Request) (ipc.Response, error) {
		return ipc.Response{}, &net.OpError{Op: "dial", Net: "unix", Err: errors.New("connection refused")}
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"--endpoint", "/tmp/echocast-none.sock", "pause"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "EchoCast is not running") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	stubSend(t, func(string, ipc.Request) (ipc.Response, error) {
		t.Fatal("sendFn called for invalid args")
		return ipc.Response{}, nil
	})

	var stdout, stderr bytes.Buffer
	if code := run([]string{"bogus"}, &stdout, &stderr); code != 2 {
		t.Fatalf("run(bogus) = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "unknown command") {
		t.Fatalf("stderr = %q", stderr.String())
	}

	stdout.Reset()
	if code := run(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("run(nil) = %d, want 2", code)
	}
	if !strings.Contains(stdout.String(), "click-through") {
		t.Fatalf("usage output = %q", stdout.String())
	}
}

func TestFormatStatusPassesThroughInvalidJSON(t *testing.T) {
	if got := formatStatus("not json\n"); got != "not json\n" {
		t.Fatalf("formatStatus() = %q", got)
	}
}
