// Package sessionlog tees warning and error log records into an in-memory
// diagnostic log that the settings window can display.
package sessionlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"
)

// maxDetailAttrs bounds how many record attributes are rendered into
// Entry.Detail. Hook and hub errors carry two or three attrs at most.
const maxDetailAttrs = 8

// Recorder receives every teed record. Ring implements it.
type Recorder interface {
	Record(ts time.Time, level slog.Level, msg, source, detail string)
}

// TeeHandler forwards every record to base and additionally hands records at
// or above minLevel to a Recorder. The slog group path becomes the entry source.
type TeeHandler struct {
	base     slog.Handler
	recorder Recorder
	minLevel slog.Level
	group    string
	attrs    []slog.Attr
}

// NewTeeHandler wraps base. A nil recorder makes the handler a pass-through.
func NewTeeHandler(base slog.Handler, minLevel slog.Level, recorder Recorder) *TeeHandler {
	return &TeeHandler{
		base:     base,
		recorder: recorder,
		minLevel: minLevel,
	}
}

// Enabled defers to the base handler; minLevel only gates the recorder.
func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle forwards the record to base and then records it. The base error is
// returned unchanged so slog can report it.
func (h *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.base.Handle(ctx, record)

	if h.recorder != nil && record.Level >= h.minLevel {
		detail := h.renderDetail(record)
		func() {
			defer func() {
				if r := recover(); r != nil {
					// stderr, not slog: logging here would re-enter this handler.
					fmt.Fprintf(os.Stderr, "[diagnostic-log] recorder panicked: %v\n%s\n", r, debug.Stack())
				}
			}()
			h.recorder.Record(record.Time, record.Level, record.Message, h.group, detail)
		}()
	}
	return err
}

// renderDetail flattens the handler's preset attrs and the record's attrs
// into "key=value" pairs. Group prefixes are omitted.
func (h *TeeHandler) renderDetail(record slog.Record) string {
	var b strings.Builder
	n := 0
	write := func(a slog.Attr) bool {
		if n >= maxDetailAttrs {
			return false
		}
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			return true
		}
		// Stack traces from panic recovery would swamp the settings view.
		if a.Key == "stack" {
			return true
		}
		if n > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value.String())
		n++
		return true
	}
	for _, a := range h.attrs {
		if !write(a) {
			return b.String()
		}
	}
	record.Attrs(write)
	return b.String()
}

// WithAttrs applies attrs to base and remembers them for Entry.Detail.
func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &TeeHandler{
		base:     h.base.WithAttrs(attrs),
		recorder: h.recorder,
		minLevel: h.minLevel,
		group:    h.group,
		attrs:    merged,
	}
}

// WithGroup extends the dot-separated source path.
func (h *TeeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &TeeHandler{
		base:     h.base.WithGroup(name),
		recorder: h.recorder,
		minLevel: h.minLevel,
		group:    group,
		attrs:    h.attrs,
	}
}
