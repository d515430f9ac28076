//go:build windows || (darwin && cgo) || (linux && cgo && hotkey_x11)

package hotkeys

import (
	"errors"
	"sync"
	"testing"
	"time"

	"golang.design/x/hotkey"
)

type fakeRegistration struct {
	mu           sync.Mutex
	registerErr  error
	registered   bool
	unregistered int
	keydown      chan hotkey.Event
}

func (f *fakeRegistration) Register() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = true
	return nil
}

func (f *fakeRegistration) Unregister() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered++
	return nil
}

func (f *fakeRegistration) Keydown() <-chan hotkey.Event { return f.keydown }

func installFakeRegistrations(t *testing.T, registerErr error) *[]*fakeRegistration {
	t.Helper()
	var created []*fakeRegistration
	original := newRegistrationFn
	t.Cleanup(func() {
		newRegistrationFn = original
	})
	newRegistrationFn = func([]hotkey.Modifier, hotkey.Key) registration {
		reg := &fakeRegistration{registerErr: registerErr, keydown: make(chan hotkey.Event, 1)}
		created = append(created, reg)
		return reg
	}
	return &created
}

func TestManagerStartTriggersCallback(t *testing.T) {
	created := installFakeRegistrations(t, nil)
	m := NewManager()
	t.Cleanup(func() { _ = m.Stop() })

	fired := make(chan struct{}, 1)
	if err := m.Start("ctrl+shift+f12", func() { fired <- struct{}{} }); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := m.ActiveBinding(); got != "Ctrl+Shift+F12" {
		t.Fatalf("ActiveBinding() = %q, want Ctrl+Shift+F12", got)
	}

	(*created)[0].keydown <- hotkey.Event{}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("onTrigger was not called")
	}
}

func TestManagerStartReplacesPreviousBinding(t *testing.T) {
	created := installFakeRegistrations(t, nil)
	m := NewManager()
	t.Cleanup(func() { _ = m.Stop() })

	if err := m.Start("Ctrl+A", func() {}); err != nil {
		t.Fatalf("first Start() error = %v", err)
	}
	if err := m.Start("Alt+B", func() {}); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if len(*created) != 2 {
		t.Fatalf("registrations = %d, want 2", len(*created))
	}
	if (*created)[0].unregistered != 1 {
		t.Fatalf("first registration unregistered %d times, want 1", (*created)[0].unregistered)
	}
	if got := m.ActiveBinding(); got != "Alt+B" {
		t.Fatalf("ActiveBinding() = %q, want Alt+B", got)
	}
}

func TestManagerStartRegisterFailure(t *testing.T) {
	sentinel := errors.New("already grabbed")
	installFakeRegistrations(t, sentinel)
	m := NewManager()

	err := m.Start("Ctrl+A", func() {})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Start() error = %v, want wrapped sentinel", err)
	}
	if got := m.ActiveBinding(); got != "" {
		t.Fatalf("ActiveBinding() = %q, want empty", got)
	}
}

func TestManagerStartValidatesInput(t *testing.T) {
	installFakeRegistrations(t, nil)
	m := NewManager()

	if err := m.Start("Ctrl+A", nil); err == nil {
		t.Fatal("Start(nil callback) expected error")
	}
	if err := m.Start("nonsense", func() {}); err == nil {
		t.Fatal("Start(invalid spec) expected error")
	}
}

func TestManagerStopIsIdempotent(t *testing.T) {
	created := installFakeRegistrations(t, nil)
	m := NewManager()

	if err := m.Start("Ctrl+A", func() {}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
	if (*created)[0].unregistered != 1 {
		t.Fatalf("unregistered = %d, want 1", (*created)[0].unregistered)
	}
	if got := m.ActiveBinding(); got != "" {
		t.Fatalf("ActiveBinding() = %q, want empty after Stop", got)
	}
}

func TestPlatformHotkeyMapsEveryParsableKey(t *testing.T) {
	for alias := range keyAliases {
		b, err := ParseBinding("Ctrl+" + alias)
		if err != nil {
			t.Fatalf("ParseBinding(%q) error = %v", alias, err)
		}
		if _, _, err := platformHotkey(b); err != nil {
			t.Errorf("platformHotkey(%q) error = %v", b.Normalized(), err)
		}
	}
	b, err := ParseBinding("Ctrl+Alt+Shift+Super+F20")
	if err != nil {
		t.Fatalf("ParseBinding() error = %v", err)
	}
	mods, _, err := platformHotkey(b)
	if err != nil {
		t.Fatalf("platformHotkey() error = %v", err)
	}
	if len(mods) != 4 {
		t.Fatalf("len(mods) = %d, want 4", len(mods))
	}
}
