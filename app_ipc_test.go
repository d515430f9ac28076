package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"echocast/internal/ipc"
)

func TestIPCRouterCommands(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	router := app.newIPCRouter()

	want := []string{
		ipc.CmdActivateWindow,
		ipc.CmdSetClickThrough,
		ipc.CmdStatus,
		ipc.CmdTogglePause,
		ipc.CmdToggleSettings,
	}
	got := router.Commands()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Commands() = %v, want %v", got, want)
	}
}

func TestIPCActivateWindow(t *testing.T) {
	app, _, win, _ := newTestApp(t)

	resp := app.newIPCRouter().Execute(ipc.Request{Command: ipc.CmdActivateWindow})
	if !resp.OK() {
		t.Fatalf("activate-window failed: %+v", resp)
	}
	if win.shows != 1 {
		t.Fatalf("WindowShow calls = %d, want 1", win.shows)
	}
}

func TestIPCToggleSettings(t *testing.T) {
	app, rec, _, _ := newTestApp(t)

	resp := app.newIPCRouter().Execute(ipc.Request{Command: ipc.CmdToggleSettings})
	if !resp.OK() {
		t.Fatalf("toggle-settings failed: %+v", resp)
	}
	if n := len(rec.named(toggleSettingsEvent)); n != 1 {
		t.Fatalf("toggle-settings emitted %d times, want 1", n)
	}
}

func TestIPCTogglePause(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	stubInputHook(t, &fakeHook{block: true})
	startTestCapture(t, app)
	router := app.newIPCRouter()

	resp := router.Execute(ipc.Request{Command: ipc.CmdTogglePause})
	if !resp.OK() || resp.Stdout != "paused\n" {
		t.Fatalf("first toggle = %+v, want paused", resp)
	}
	resp = router.Execute(ipc.Request{Command: ipc.CmdTogglePause})
	if !resp.OK() || resp.Stdout != "resumed\n" {
		t.Fatalf("second toggle = %+v, want resumed", resp)
	}
}

func TestIPCSetClickThrough(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantOK    bool
		wantState bool
	}{
		{name: "on", args: []string{"on"}, wantOK: true, wantState: true},
		{name: "true mixed case", args: []string{" TRUE "}, wantOK: true, wantState: true},
		{name: "numeric on", args: []string{"1"}, wantOK: true, wantState: true},
		{name: "off", args: []string{"off"}, wantOK: true, wantState: false},
		{name: "missing arg", args: nil, wantOK: false},
		{name: "extra arg", args: []string{"on", "now"}, wantOK: false},
		{name: "bad value", args: []string{"maybe"}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, _, _ := newTestApp(t)

			resp := app.newIPCRouter().Execute(ipc.Request{Command: ipc.CmdSetClickThrough, Args: tt.args})
			if resp.OK() != tt.wantOK {
				t.Fatalf("resp = %+v, want OK=%v", resp, tt.wantOK)
			}
			if !tt.wantOK {
				if !strings.Contains(resp.Stderr, "usage:") {
					t.Fatalf("Stderr = %q, want usage", resp.Stderr)
				}
				return
			}
			if app.IsClickThrough() != tt.wantState {
				t.Fatalf("IsClickThrough() = %v, want %v", app.IsClickThrough(), tt.wantState)
			}
		})
	}
}

func TestIPCSetClickThroughPlatformFailure(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	setIgnoreCursorEventsFn = func(string, bool) error { return errors.New("window not found") }

	resp := app.newIPCRouter().Execute(ipc.Request{Command: ipc.CmdSetClickThrough, Args: []string{"on"}})
	if resp.OK() {
		t.Fatal("set-click-through succeeded despite platform failure")
	}
	if !strings.Contains(resp.Stderr, "window not found") {
		t.Fatalf("Stderr = %q", resp.Stderr)
	}
}

func TestIPCStatus(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	app.captureState.Store(&captureStatus{Available: false, Error: "no permission"})
	app.clickThrough.Store(true)

	resp := app.newIPCRouter().Execute(ipc.Request{Command: ipc.CmdStatus})
	if !resp.OK() {
		t.Fatalf("status failed: %+v", resp)
	}
	var status CaptureStatus
	if err := json.Unmarshal([]byte(resp.Stdout), &status); err != nil {
		t.Fatalf("decode status: %v (stdout %q)", err, resp.Stdout)
	}
	if status.Available || status.Error != "no permission" || !status.ClickThrough {
		t.Fatalf("status = %+v", status)
	}
}

func TestIPCUnknownCommand(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	resp := app.newIPCRouter().Execute(ipc.Request{Command: "reboot"})
	if resp.OK() || !strings.Contains(resp.Stderr, "unknown command") {
		t.Fatalf("resp = %+v, want unknown command failure", resp)
	}
}
