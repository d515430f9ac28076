// Package overlay controls native properties of the overlay window that the
// webview layer cannot reach, such as letting mouse input pass through it.
package overlay

import (
	"errors"
	"strings"
)

// ErrUnsupported is returned where the platform has no click-through control.
var ErrUnsupported = errors.New("click-through is not supported on this platform")

// ErrWindowNotFound is returned when no top-level window matches the title.
var ErrWindowNotFound = errors.New("overlay window not found")

// SetIgnoreCursorEvents makes the window titled title transparent to mouse
// input (ignore=true) or interactive again (ignore=false).
func SetIgnoreCursorEvents(title string, ignore bool) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("window title is required")
	}
	return setIgnoreCursorEvents(title, ignore)
}
