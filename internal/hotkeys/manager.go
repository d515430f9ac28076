//go:build windows || (darwin && cgo) || (linux && cgo && hotkey_x11)

package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.design/x/hotkey"
)

const stopTimeout = 2 * time.Second

// registration is the subset of *hotkey.Hotkey used by Manager.
type registration interface {
	Register() error
	Unregister() error
	Keydown() <-chan hotkey.Event
}

// newRegistrationFn is a test seam; tests replace it with an in-memory fake.
var newRegistrationFn = func(mods []hotkey.Modifier, key hotkey.Key) registration {
	return hotkey.New(mods, key)
}

// activeHotkey holds the state of a single active hotkey registration.
// When non-nil in Manager, all fields are valid and a listener goroutine is running.
type activeHotkey struct {
	reg     registration
	stopCh  chan struct{}
	doneCh  chan struct{}
	binding string
}

// Manager manages one global hotkey registration.
type Manager struct {
	mu     sync.Mutex
	active *activeHotkey // nil when no hotkey is registered
}

// NewManager creates a new hotkey manager.
func NewManager() *Manager {
	return &Manager{}
}

// Start registers a global hotkey and binds onTrigger to it. A previously
// active binding is replaced.
func (m *Manager) Start(spec string, onTrigger func()) error {
	if onTrigger == nil {
		return errors.New("onTrigger callback is required")
	}

	binding, err := ParseBinding(spec)
	if err != nil {
		return err
	}
	mods, key, err := platformHotkey(binding)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.stopLocked(); err != nil {
		return err
	}

	reg := newRegistrationFn(mods, key)
	if err := reg.Register(); err != nil {
		return fmt.Errorf("register hotkey %q failed: %w", binding.Normalized(), err)
	}

	ah := &activeHotkey{
		reg:     reg,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		binding: binding.Normalized(),
	}
	go listen(ah, onTrigger)
	m.active = ah
	slog.Info("[hotkey] global hotkey registered", "binding", ah.binding)
	return nil
}

// Stop unregisters the active global hotkey.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

// ActiveBinding returns the normalized binding string for the active hotkey.
func (m *Manager) ActiveBinding() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return ""
	}
	return m.active.binding
}

func (m *Manager) stopLocked() error {
	if m.active == nil {
		return nil
	}

	ah := m.active
	// Clear the active pointer first so that concurrent ActiveBinding() calls
	// see the manager as idle. The actual cleanup follows using the local copy.
	m.active = nil

	close(ah.stopCh)
	stopErr := ah.reg.Unregister()
	if stopErr != nil {
		stopErr = fmt.Errorf("unregister hotkey %q: %w", ah.binding, stopErr)
	}

	timer := time.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-ah.doneCh:
	case <-timer.C:
		slog.Warn("[hotkey] listener stop timed out, goroutine may leak", "binding", ah.binding)
		stopErr = errors.Join(stopErr, fmt.Errorf("hotkey listener stop timed out (%s)", ah.binding))
	}
	return stopErr
}

func listen(ah *activeHotkey, onTrigger func()) {
	defer close(ah.doneCh)
	keydown := ah.reg.Keydown()
	for {
		select {
		case <-ah.stopCh:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			go onTrigger()
		}
	}
}
