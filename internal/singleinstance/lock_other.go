//go:build !windows && !darwin && !linux && !freebsd && !openbsd && !netbsd && !dragonfly

package singleinstance

// Lock is a no-op on platforms without flock.
type Lock struct{}

// TryLock always succeeds on platforms without flock.
func TryLock(_ string) (*Lock, error) { return &Lock{}, nil }

// Release is a no-op.
func (l *Lock) Release() error { return nil }

// DefaultName returns an empty string on platforms without flock.
func DefaultName() string { return "" }
