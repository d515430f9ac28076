//go:build darwin || linux || freebsd || openbsd || netbsd || dragonfly

package singleinstance

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestTryLock(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, path string)
	}{
		{
			name: "first lock succeeds and records pid",
			run: func(t *testing.T, path string) {
				lock, err := TryLock(path)
				if err != nil {
					t.Fatalf("TryLock failed: %v", err)
				}
				defer lock.Release()

				raw, err := os.ReadFile(path)
				if err != nil {
					t.Fatalf("read lock file: %v", err)
				}
				if strings.TrimSpace(string(raw)) != strconv.Itoa(os.Getpid()) {
					t.Fatalf("lock file content = %q, want pid %d", raw, os.Getpid())
				}
			},
		},
		{
			name: "second lock returns ErrAlreadyRunning",
			run: func(t *testing.T, path string) {
				lock1, err := TryLock(path)
				if err != nil {
					t.Fatalf("first TryLock failed: %v", err)
				}
				defer lock1.Release()

				lock2, err := TryLock(path)
				if !errors.Is(err, ErrAlreadyRunning) {
					t.Fatalf("second TryLock: got err=%v, want ErrAlreadyRunning", err)
				}
				if lock2 != nil {
					t.Fatal("second TryLock returned non-nil lock on ErrAlreadyRunning")
				}
			},
		},
		{
			name: "lock reacquirable after release",
			run: func(t *testing.T, path string) {
				lock1, err := TryLock(path)
				if err != nil {
					t.Fatalf("first TryLock failed: %v", err)
				}
				if err := lock1.Release(); err != nil {
					t.Fatalf("Release failed: %v", err)
				}
				lock2, err := TryLock(path)
				if err != nil {
					t.Fatalf("second TryLock after release failed: %v", err)
				}
				defer lock2.Release()
			},
		},
		{
			name: "release idempotent",
			run: func(t *testing.T, path string) {
				lock, err := TryLock(path)
				if err != nil {
					t.Fatalf("TryLock failed: %v", err)
				}
				if err := lock.Release(); err != nil {
					t.Fatalf("first Release failed: %v", err)
				}
				if err := lock.Release(); err != nil {
					t.Fatalf("second Release should be no-op, got: %v", err)
				}
			},
		},
		{
			name: "nil lock release safe",
			run: func(t *testing.T, _ string) {
				var lock *Lock
				if err := lock.Release(); err != nil {
					t.Fatalf("nil Release should be no-op, got: %v", err)
				}
			},
		},
		{
			name: "empty name returns error",
			run: func(t *testing.T, _ string) {
				lock, err := TryLock("")
				if err == nil {
					t.Fatal("TryLock with empty name should fail")
				}
				if lock != nil {
					t.Fatal("TryLock with empty name returned non-nil lock")
				}
			},
		},
		{
			name: "missing directory returns error",
			run: func(t *testing.T, path string) {
				if _, err := TryLock(filepath.Join(path+".d", "missing", "x.lock")); err == nil {
					t.Fatal("TryLock in missing directory should fail")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, filepath.Join(t.TempDir(), "echocast-test.lock"))
		})
	}
}

func TestDefaultName(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	t.Setenv("USERNAME", "")
	t.Setenv("USER", "unit tester")

	want := filepath.Join(dir, "echocast-unit_tester.lock")
	if got := DefaultName(); got != want {
		t.Fatalf("DefaultName() = %q, want %q", got, want)
	}
}
