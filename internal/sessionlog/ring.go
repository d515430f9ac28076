package sessionlog

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultCapacity keeps the settings view responsive while still covering
	// a long recording session's worth of warnings.
	DefaultCapacity = 500

	// DefaultNotifyInterval throttles the "log updated" ping to the frontend.
	DefaultNotifyInterval = 50 * time.Millisecond

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Entry is one diagnostic log line as shown by the settings window.
type Entry struct {
	// Seq increases monotonically for the process lifetime and never resets,
	// so the frontend can dedupe across snapshots.
	Seq       uint64 `json:"seq"`
	Timestamp string `json:"ts"`
	Level     string `json:"level"`
	Message   string `json:"msg"`
	Source    string `json:"source"`
	Detail    string `json:"detail,omitempty"`
}

// Ring is a fixed-capacity, concurrency-safe buffer of the most recent entries.
// The optional notify callback runs outside the lock, at most once per
// interval. It carries no payload; receivers call Snapshot.
type Ring struct {
	mu       sync.Mutex
	buf      []Entry
	head     int
	count    int
	seq      uint64
	lastPing time.Time

	interval time.Duration
	notify   func()
	now      func() time.Time
}

// NewRing allocates a ring. capacity < 1 is clamped to 1; interval <= 0
// selects DefaultNotifyInterval.
func NewRing(capacity int, interval time.Duration, notify func()) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	if interval <= 0 {
		interval = DefaultNotifyInterval
	}
	return &Ring{
		buf:      make([]Entry, capacity),
		interval: interval,
		notify:   notify,
		now:      time.Now,
	}
}

// Record implements Recorder.
//
// Never call slog while r.mu is held: TeeHandler routes records back here and
// the mutex is not reentrant.
func (r *Ring) Record(ts time.Time, level slog.Level, msg, source, detail string) {
	if ts.IsZero() {
		ts = r.now()
	}
	entry := Entry{
		Timestamp: ts.Format(timestampLayout),
		Level:     levelName(level),
		Message:   msg,
		Source:    source,
		Detail:    detail,
	}

	r.mu.Lock()
	r.seq++
	entry.Seq = r.seq
	r.push(entry)
	shouldNotify := false
	if now := r.now(); r.notify != nil && now.Sub(r.lastPing) >= r.interval {
		r.lastPing = now
		shouldNotify = true
	}
	r.mu.Unlock()

	if shouldNotify {
		r.notify()
	}
}

func (r *Ring) push(entry Entry) {
	size := len(r.buf)
	if r.count < size {
		r.buf[(r.head+r.count)%size] = entry
		r.count++
		return
	}
	r.buf[r.head] = entry
	r.head = (r.head + 1) % size
}

// Snapshot returns the stored entries oldest first. The slice is never nil.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, r.count)
	size := len(r.buf)
	first := min(size-r.head, r.count)
	copy(out, r.buf[r.head:r.head+first])
	if rest := r.count - first; rest > 0 {
		copy(out[first:], r.buf[:rest])
	}
	return out
}

// Len returns the number of stored entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Clear drops all entries. Seq keeps counting.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.buf)
	r.head = 0
	r.count = 0
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
