package main

import (
	"fmt"
	"io"
)

func printUsage(w io.Writer) {
	// Usage output is best-effort.
	_, _ = fmt.Fprintln(w, "echocast-ctl controls a running EchoCast overlay")
	_, _ = fmt.Fprintln(w, "Usage: echocast-ctl [--endpoint PATH] [--json] <command> [args]")
	_, _ = fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		_, _ = fmt.Fprintf(w, "  %-14s %s\n", name, commandSpecs[name].usage)
	}
}
