package testutil

import (
	"testing"
	"time"
)

// WaitForCondition polls fn every 10ms until it returns true or timeout
// expires. Returns false on timeout so callers can report their own context.
func WaitForCondition(t *testing.T, timeout time.Duration, fn func() bool) bool {
	t.Helper()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		if fn() {
			return true
		}
		select {
		case <-ticker.C:
		case <-deadline.C:
			return fn()
		}
	}
}
