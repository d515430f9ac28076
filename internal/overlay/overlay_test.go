package overlay

import (
	"errors"
	"runtime"
	"testing"
)

func TestSetIgnoreCursorEventsRequiresTitle(t *testing.T) {
	for _, title := range []string{"", "   "} {
		if err := SetIgnoreCursorEvents(title, true); err == nil {
			t.Errorf("SetIgnoreCursorEvents(%q) error = nil, want error", title)
		}
	}
}

func TestSetIgnoreCursorEventsUnsupported(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("click-through is implemented on this platform")
	}
	if err := SetIgnoreCursorEvents("EchoCast", true); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("SetIgnoreCursorEvents() error = %v, want ErrUnsupported", err)
	}
}
