// Package inputhook installs the platform's global keyboard and mouse hook
// and translates its events into capture.RawEvent values.
package inputhook

import (
	"context"
	"errors"

	"echocast/internal/capture"
)

var (
	// ErrUnsupported is returned when no hook implementation exists for the
	// running platform.
	ErrUnsupported = errors.New("global input capture is not supported on this platform")

	// ErrPermissionDenied is returned when the OS refuses access to input
	// events (accessibility permission on macOS, /dev/input on Linux).
	ErrPermissionDenied = errors.New("input capture permission denied")
)

// EmitFunc receives raw events in arrival order. Implementations call it from
// a single goroutine; it must not block for long.
type EmitFunc func(capture.RawEvent)

// Hook is a global input hook.
type Hook interface {
	// Run installs the hook and delivers events to emit until ctx is
	// cancelled or the OS stream ends. Installation failures are returned
	// before any event is delivered.
	Run(ctx context.Context, emit EmitFunc) error
}

// New returns the hook for the running platform.
func New() Hook {
	return newPlatformHook()
}

// CheckPermission reports whether the process may read global input events.
func CheckPermission() bool {
	return checkPermission()
}

// RequestPermission asks the OS for input access where a prompt exists and
// returns the resulting state.
func RequestPermission() bool {
	return requestPermission()
}

// ChannelEmitter returns an EmitFunc feeding ch. When ch is full, mouse moves
// are dropped (dropped is called for each when non-nil); buttons and keys
// wait so press/release pairs are never lost. The wait ends when ctx is
// done, so a hook whose consumer is gone can still reach its own shutdown.
func ChannelEmitter(ctx context.Context, ch chan<- capture.RawEvent, dropped func(capture.RawEvent)) EmitFunc {
	return func(ev capture.RawEvent) {
		if ev.Kind != capture.RawMouseMove {
			select {
			case ch <- ev:
			case <-ctx.Done():
				if dropped != nil {
					dropped(ev)
				}
			}
			return
		}
		select {
		case ch <- ev:
		default:
			if dropped != nil {
				dropped(ev)
			}
		}
	}
}
