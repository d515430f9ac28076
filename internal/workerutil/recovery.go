// Package workerutil supervises long-lived background goroutines such as the
// capture worker and the config watcher.
package workerutil

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

const (
	// defaultInitialBackoff is the delay before the first restart after a panic.
	// Doubles on each consecutive panic up to defaultMaxBackoff.
	defaultInitialBackoff = 100 * time.Millisecond

	// defaultMaxBackoff caps the delay between restarts.
	defaultMaxBackoff = 5 * time.Second

	// defaultMaxRetries bounds consecutive panics before the worker is abandoned.
	defaultMaxRetries = 10

	// defaultHealthyAfter is how long a run must last before its panic is
	// treated as a fresh failure rather than part of a crash loop.
	defaultHealthyAfter = time.Minute
)

// nowFn is a test seam.
var nowFn = time.Now

// RecoveryOptions configures RunWithPanicRecovery. Zero values select the
// defaults above; nil callbacks are skipped.
type RecoveryOptions struct {
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// MaxRetries limits consecutive panics. Set to 1 to run once and give up
	// on the first panic.
	MaxRetries int

	// HealthyAfter resets the backoff and the consecutive-panic count when a
	// run survives at least this long. The capture worker runs for hours, so
	// one panic a day must not eventually exhaust the retry budget.
	HealthyAfter time.Duration

	// OnPanic is called after each recovered panic, before the backoff wait.
	// attempt counts consecutive panics, 1-based.
	OnPanic func(worker string, attempt int, value any)

	// OnFatal is called once the worker has been abandoned.
	OnFatal func(worker string, maxRetries int)

	// IsShutdown stops restarts while the application tears down. OnPanic is
	// not called in that case because app state may already be gone.
	IsShutdown func() bool
}

func (opts RecoveryOptions) applyDefaults() RecoveryOptions {
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.HealthyAfter <= 0 {
		opts.HealthyAfter = defaultHealthyAfter
	}
	if opts.MaxBackoff < opts.InitialBackoff {
		slog.Warn("[DEBUG-PANIC] MaxBackoff < InitialBackoff, using InitialBackoff as MaxBackoff",
			"initialBackoff", opts.InitialBackoff,
			"maxBackoff", opts.MaxBackoff,
		)
		opts.MaxBackoff = opts.InitialBackoff
	}
	return opts
}

// RunWithPanicRecovery launches fn in a goroutine tracked by wg. A panic in
// fn is logged with its stack and fn is restarted after an exponential
// backoff. fn returning normally, or ctx being cancelled, ends supervision.
func RunWithPanicRecovery(
	ctx context.Context,
	name string,
	wg *sync.WaitGroup,
	fn func(ctx context.Context),
	opts RecoveryOptions,
) {
	opts = opts.applyDefaults()
	wg.Go(func() {
		supervise(ctx, name, fn, opts)
	})
}

func supervise(ctx context.Context, name string, fn func(ctx context.Context), opts RecoveryOptions) {
	delay := opts.InitialBackoff
	consecutive := 0

	for {
		started := nowFn()
		value, panicked := runOnce(ctx, name, fn)
		if !panicked || ctx.Err() != nil {
			return
		}
		if opts.IsShutdown != nil && opts.IsShutdown() {
			slog.Info("[DEBUG-PANIC] shutdown in progress, not restarting worker", "worker", name)
			return
		}

		if nowFn().Sub(started) >= opts.HealthyAfter {
			consecutive = 0
			delay = opts.InitialBackoff
		}
		consecutive++

		if opts.OnPanic != nil {
			opts.OnPanic(name, consecutive, value)
		}
		if consecutive >= opts.MaxRetries {
			break
		}

		slog.Warn("[DEBUG-PANIC] restarting worker after panic",
			"worker", name,
			"restartDelay", delay,
			"attempt", consecutive,
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		delay = nextBackoff(delay, opts.MaxBackoff)
	}

	slog.Error("[DEBUG-PANIC] worker exceeded max retries, giving up",
		"worker", name,
		"maxRetries", opts.MaxRetries,
	)
	if opts.OnFatal != nil {
		opts.OnFatal(name, opts.MaxRetries)
	}
}

func runOnce(ctx context.Context, name string, fn func(ctx context.Context)) (value any, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[DEBUG-PANIC] background goroutine recovered from panic",
				"worker", name,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			value, panicked = r, true
		}
	}()
	fn(ctx)
	return nil, false
}

// nextBackoff doubles current, capped at maxBackoff and guarded against overflow.
func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	if current <= 0 {
		return defaultInitialBackoff
	}
	if current >= maxBackoff {
		return maxBackoff
	}
	next := current * 2
	if next > maxBackoff || next < current {
		return maxBackoff
	}
	return next
}
