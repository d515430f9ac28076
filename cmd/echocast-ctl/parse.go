package main

import (
	"errors"
	"fmt"
	"strings"

	"echocast/internal/ipc"
)

// commandSpec maps a CLI verb onto a control channel command.
type commandSpec struct {
	command string
	usage   string
	// args is the exact number of positional arguments accepted.
	args int
	// normalize validates and rewrites positional arguments. May be nil.
	normalize func([]string) ([]string, error)
}

var commandSpecs = map[string]commandSpec{
	"status":        {command: ipc.CmdStatus, usage: "show capture state"},
	"pause":         {command: ipc.CmdTogglePause, usage: "toggle capture pause (same as Ctrl+Alt+P)"},
	"settings":      {command: ipc.CmdToggleSettings, usage: "open or close the settings panel"},
	"activate":      {command: ipc.CmdActivateWindow, usage: "bring the overlay window to the front"},
	"click-through": {command: ipc.CmdSetClickThrough, usage: "on|off  let mouse input pass through the overlay", args: 1, normalize: normalizeOnOff},
}

// commandOrder keeps usage output stable.
var commandOrder = []string{"status", "pause", "settings", "activate", "click-through"}

// cliOptions are the global flags preceding the command.
type cliOptions struct {
	endpoint string
	json     bool
}

var errUsage = errors.New("usage")

// parseArgs turns argv (without the program name) into options and a request.
func parseArgs(args []string) (cliOptions, ipc.Request, error) {
	var opts cliOptions
	i := 0
	for i < len(args) && strings.HasPrefix(args[i], "-") {
		switch arg := args[i]; {
		case arg == "-h" || arg == "--help":
			return opts, ipc.Request{}, errUsage
		case arg == "--json":
			opts.json = true
			i++
		case arg == "--endpoint":
			if i+1 >= len(args) {
				return opts, ipc.Request{}, errors.New("flag --endpoint requires a value")
			}
			opts.endpoint = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--endpoint="):
			opts.endpoint = strings.TrimPrefix(arg, "--endpoint=")
			i++
		default:
			return opts, ipc.Request{}, fmt.Errorf("unknown flag %s", arg)
		}
	}
	if i >= len(args) {
		return opts, ipc.Request{}, errUsage
	}

	name := strings.TrimSpace(args[i])
	spec, ok := commandSpecs[name]
	if !ok {
		return opts, ipc.Request{}, fmt.Errorf("unknown command: %s", name)
	}
	positional := args[i+1:]
	if len(positional) != spec.args {
		return opts, ipc.Request{}, fmt.Errorf("%s expects %d argument(s), got %d", name, spec.args, len(positional))
	}
	if spec.normalize != nil {
		normalized, err := spec.normalize(positional)
		if err != nil {
			return opts, ipc.Request{}, fmt.Errorf("%s: %w", name, err)
		}
		positional = normalized
	}
	return opts, ipc.Request{Command: spec.command, Args: positional}, nil
}

func normalizeOnOff(args []string) ([]string, error) {
	switch strings.ToLower(args[0]) {
	case "on", "true", "1", "yes":
		return []string{"on"}, nil
	case "off", "false", "0", "no":
		return []string{"off"}, nil
	default:
		return nil, fmt.Errorf("expected on or off, got %q", args[0])
	}
}
