// Package ipc is the local control channel of a running EchoCast instance:
// a Windows named pipe or a Unix domain socket carrying one newline-delimited
// JSON request and one response per connection.
package ipc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Commands understood by the running application.
const (
	CmdActivateWindow  = "activate-window"
	CmdTogglePause     = "toggle-pause"
	CmdToggleSettings  = "toggle-settings"
	CmdSetClickThrough = "set-click-through"
	CmdStatus          = "status"
)

// Request is a single control command.
type Request struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Response is the reply to a Request. Stdout carries command output (JSON
// for status), Stderr a human-readable failure reason.
type Response struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// OK reports whether the command succeeded.
func (r Response) OK() bool { return r.ExitCode == 0 }

// Success builds a zero-exit response.
func Success(stdout string) Response {
	return Response{Stdout: stdout}
}

// Failure builds a non-zero response with a formatted reason.
func Failure(format string, args ...any) Response {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return Response{ExitCode: 1, Stderr: msg}
}

// CommandExecutor handles a request and returns a response.
type CommandExecutor interface {
	Execute(req Request) Response
}

// HandlerFunc handles the arguments of one command.
type HandlerFunc func(args []string) Response

// Router dispatches requests by command name.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Handle registers fn for command, replacing any previous handler.
func (r *Router) Handle(command string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[command] = fn
}

// Commands lists registered command names in sorted order.
func (r *Router) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Execute implements CommandExecutor.
func (r *Router) Execute(req Request) Response {
	r.mu.RLock()
	fn, ok := r.handlers[req.Command]
	r.mu.RUnlock()
	if !ok {
		return Failure("unknown command %q", req.Command)
	}
	return fn(req.Args)
}

func encodeRequest(req Request) ([]byte, error) {
	return json.Marshal(req)
}

func decodeRequest(raw []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, err
	}
	req.Command = strings.TrimSpace(req.Command)
	if req.Command == "" {
		return Request{}, fmt.Errorf("command is required")
	}
	if req.Args == nil {
		req.Args = []string{}
	}
	return req, nil
}

func encodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

func decodeResponse(raw []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
