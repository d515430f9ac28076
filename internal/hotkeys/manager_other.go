//go:build !windows && !(darwin && cgo) && !(linux && cgo && hotkey_x11)

package hotkeys

import (
	"errors"
	"log/slog"
	"sync"
)

// Manager validates and remembers the settings binding. This build has no
// hotkey backend, so nothing fires; the menu item and echocast-ctl still open
// settings. macOS needs cgo. Linux also needs the hotkey_x11 build tag: the
// X11 backend panics at init without a display (Wayland without XWayland,
// headless CI), which would take capture down with it.
type Manager struct {
	mu     sync.Mutex
	active string
	warned bool
}

func NewManager() *Manager {
	return &Manager{}
}

// Start parses spec and records it as the active binding.
func (m *Manager) Start(spec string, onTrigger func()) error {
	if onTrigger == nil {
		return errors.New("onTrigger callback is required")
	}
	binding, err := ParseBinding(spec)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = binding.Normalized()
	if !m.warned {
		m.warned = true
		slog.Warn("[hotkey] no global hotkey backend in this build; binding recorded only",
			"binding", m.active)
	}
	return nil
}

func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = ""
	return nil
}

// ActiveBinding returns the recorded binding, or "" after Stop.
func (m *Manager) ActiveBinding() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
