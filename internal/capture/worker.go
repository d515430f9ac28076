package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

// ErrWorkerStopped is returned by control requests when the worker is not
// draining its control channel.
var ErrWorkerStopped = errors.New("capture worker is not running")

// Sink receives normalized events. Emit must not block for long; the worker
// calls it inline.
type Sink interface {
	Emit(Event) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(Event) error

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) error {
	return f(ev)
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithPauseHandler registers fn to run on the worker goroutine after every
// pause flip, whether it came from the chord or from TogglePause. fn runs
// after the matching system event reached the sink.
func WithPauseHandler(fn func(paused bool)) WorkerOption {
	return func(w *Worker) {
		w.onPause = fn
	}
}

type controlRequest struct {
	reply chan bool
}

// Worker owns a Normalizer and feeds it from the hook channel. All
// normalizer state is touched only from the goroutine running Run.
type Worker struct {
	norm    *Normalizer
	sink    Sink
	control chan controlRequest
	onPause func(paused bool)

	paused    atomic.Bool
	processed atomic.Uint64
	dropped   atomic.Uint64
}

// NewWorker creates a worker emitting into sink. now may be nil.
func NewWorker(sink Sink, now func() time.Time, opts ...WorkerOption) *Worker {
	if sink == nil {
		sink = SinkFunc(func(Event) error { return nil })
	}
	w := &Worker{
		norm:    NewNormalizer(now),
		sink:    sink,
		control: make(chan controlRequest),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains raw until ctx is cancelled or raw is closed. It may be called
// again after it returns (for example after a panic restart); session state
// is kept across calls.
func (w *Worker) Run(ctx context.Context, raw <-chan RawEvent) {
	slog.Debug("[capture] worker started")
	defer slog.Debug("[capture] worker stopped", "processed", w.processed.Load())

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.control:
			w.deliver(w.norm.TogglePause())
			w.syncPaused()
			req.reply <- w.norm.Paused()
		case ev, ok := <-raw:
			if !ok {
				slog.Info("[capture] raw event stream closed")
				return
			}
			w.processed.Add(1)
			for _, out := range w.norm.Process(ev) {
				w.deliver(out)
			}
			w.syncPaused()
		}
	}
}

// syncPaused publishes the normalizer's pause flag and reports a flip.
func (w *Worker) syncPaused() {
	paused := w.norm.Paused()
	if w.paused.Swap(paused) == paused {
		return
	}
	if w.onPause != nil {
		w.onPause(paused)
	}
}

func (w *Worker) deliver(ev Event) {
	if err := w.sink.Emit(ev); err != nil {
		w.dropped.Add(1)
		slog.Debug("[capture] sink rejected event", "kind", ev.Kind, "error", err)
	}
}

// TogglePause flips the pause flag on the worker goroutine, emits the
// matching system event and returns the new state.
func (w *Worker) TogglePause(ctx context.Context) (bool, error) {
	req := controlRequest{reply: make(chan bool, 1)}
	select {
	case w.control <- req:
	case <-ctx.Done():
		return w.paused.Load(), ErrWorkerStopped
	}
	select {
	case paused := <-req.reply:
		return paused, nil
	case <-ctx.Done():
		return w.paused.Load(), ctx.Err()
	}
}

// Paused reports the pause flag as of the last processed event.
func (w *Worker) Paused() bool {
	return w.paused.Load()
}

// Stats returns the number of raw events processed and normalized events the
// sink rejected.
func (w *Worker) Stats() (processed, dropped uint64) {
	return w.processed.Load(), w.dropped.Load()
}
