// Package singleinstance keeps a second EchoCast process from starting a
// competing input hook.
package singleinstance

import "errors"

// ErrAlreadyRunning is returned by TryLock when another instance holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

const appName = "echocast"
