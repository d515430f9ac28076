//go:build windows

package singleinstance

import (
	"errors"
	"fmt"
	"sync"

	"echocast/internal/userutil"

	"golang.org/x/sys/windows"
)

// Lock owns a named mutex. Windows abandons the mutex when the process exits,
// so a crashed instance never blocks the next start.
type Lock struct {
	mu     sync.Mutex
	handle windows.Handle
}

// TryLock creates the named mutex with initial ownership. Returns
// ErrAlreadyRunning if the mutex already exists.
func TryLock(name string) (*Lock, error) {
	if name == "" {
		return nil, errors.New("mutex name is required")
	}
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("mutex name %q: %w", name, err)
	}

	h, err := windows.CreateMutex(nil, true, namePtr)
	switch {
	case errors.Is(err, windows.ERROR_ALREADY_EXISTS):
		closeHandle(h)
		return nil, ErrAlreadyRunning
	case err != nil:
		closeHandle(h)
		return nil, fmt.Errorf("CreateMutex %q: %w", name, err)
	}
	return &Lock{handle: h}, nil
}

func closeHandle(h windows.Handle) {
	if h != 0 {
		_ = windows.CloseHandle(h)
	}
}

// Release closes the mutex handle. Safe on a nil receiver and idempotent.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(l.handle)
	l.handle = 0
	return err
}

// DefaultName returns the per-user mutex name, matching the user suffix of
// ipc.DefaultEndpoint.
func DefaultName() string {
	return `Global\` + appName + "-" + userutil.CurrentUsername()
}
