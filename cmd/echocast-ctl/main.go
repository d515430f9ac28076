// Command echocast-ctl sends control commands to a running EchoCast overlay
// over its local control channel.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"echocast/internal/ipc"
)

var sendFn = ipc.Send

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, req, err := parseArgs(args)
	if errors.Is(err, errUsage) {
		printUsage(stdout)
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		printUsage(stderr)
		return 2
	}

	endpoint := opts.endpoint
	if endpoint == "" {
		endpoint = ipc.DefaultEndpoint()
	}
	resp, err := sendFn(endpoint, req)
	if err != nil {
		if ipc.IsConnectionError(err) {
			fmt.Fprintf(stderr, "EchoCast is not running (no control channel at %s)\n", endpoint)
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}

	if resp.Stdout != "" {
		out := resp.Stdout
		if req.Command == ipc.CmdStatus && !opts.json {
			out = formatStatus(resp.Stdout)
		}
		fmt.Fprint(stdout, out)
	}
	if resp.Stderr != "" {
		fmt.Fprint(stderr, resp.Stderr)
	}
	return resp.ExitCode
}

// formatStatus renders the status JSON object as sorted "key: value" lines.
// Unparseable input is returned unchanged.
func formatStatus(raw string) string {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return raw
	}
	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, "%s: %v\n", key, fields[key])
	}
	return b.String()
}
