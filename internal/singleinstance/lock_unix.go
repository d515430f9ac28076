//go:build darwin || linux || freebsd || openbsd || netbsd || dragonfly

package singleinstance

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"echocast/internal/userutil"
)

// Lock holds an exclusive flock on a per-user lock file. The kernel drops
// the lock when the owning process exits, so a stale file never blocks startup.
type Lock struct {
	mu   sync.Mutex
	file *os.File
}

// TryLock opens (creating if needed) the lock file at name and takes a
// non-blocking exclusive flock. Returns ErrAlreadyRunning if another
// process holds it.
func TryLock(name string) (*Lock, error) {
	if name == "" {
		return nil, errors.New("lock file path is required")
	}
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %q: %w", name, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("flock %q: %w", name, err)
	}
	if err := f.Truncate(0); err == nil {
		fmt.Fprintf(f, "%d\n", os.Getpid())
	}
	return &Lock{file: f}, nil
}

// Release unlocks and closes the lock file. Safe to call on nil receiver
// and idempotent. The file itself is left in place.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	unlockErr := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	return errors.Join(unlockErr, closeErr)
}

// DefaultName returns the per-user lock file path.
func DefaultName() string {
	return userutil.RuntimePath(appName, ".lock")
}
