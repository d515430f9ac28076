package capture

import (
	"math"
	"time"
)

const (
	// dragThreshold is the distance, in screen units, a held button must
	// travel from its origin before the gesture counts as a drag.
	dragThreshold = 10.0
	// doubleClickWindow is the maximum gap between two same-button click
	// releases that still forms a double click. The bound is exclusive.
	doubleClickWindow = 300 * time.Millisecond
)

// Position is a cursor position in screen coordinates.
type Position struct {
	X, Y float64
}

func (p Position) distance(o Position) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// pointerPhase is the gesture state of the pointer.
//
//	idle     --press-->            pressed
//	pressed  --move beyond 10-->   dragging
//	pressed  --press (other)-->    pressed   (held button replaced)
//	dragging --press (other)-->    pressed   (origin kept)
//	any      --release-->          idle      (origin cleared)
type pointerPhase uint8

const (
	pointerIdle pointerPhase = iota
	pointerPressed
	pointerDragging
)

// pointerTracker runs the pointer gesture state machine. The press event
// carries no coordinates, so the origin is the last position seen before
// the press, or the first move after it when none was seen.
type pointerTracker struct {
	phase  pointerPhase
	button Button

	origin    Position
	hasOrigin bool

	last    Position
	hasLast bool
}

func (t *pointerTracker) press(b Button) {
	// A second button while held keeps the existing origin; mid-drag it
	// restarts threshold detection from there.
	if t.phase == pointerIdle {
		t.origin = t.last
		t.hasOrigin = t.hasLast
	}
	t.phase = pointerPressed
	t.button = b
}

// move advances the state machine and reports whether this move started a drag.
func (t *pointerTracker) move(pos Position) bool {
	started := false
	if t.phase == pointerPressed && t.hasOrigin && pos.distance(t.origin) > dragThreshold {
		t.phase = pointerDragging
		started = true
	}
	if t.phase == pointerPressed && !t.hasOrigin {
		t.origin = pos
		t.hasOrigin = true
	}
	t.last = pos
	t.hasLast = true
	return started
}

// release returns whether the gesture ended as a drag and resets to idle.
func (t *pointerTracker) release() bool {
	dragged := t.dragging()
	t.phase = pointerIdle
	t.hasOrigin = false
	t.origin = Position{}
	return dragged
}

func (t *pointerTracker) dragging() bool {
	return t.phase == pointerDragging
}

// clickRecord remembers the last completed click for double-click matching.
type clickRecord struct {
	button Button
	at     time.Time
	valid  bool
}

// isDoubleWith reports whether a click of b at now pairs with the record.
func (c clickRecord) isDoubleWith(b Button, now time.Time) bool {
	if !c.valid || c.button != b {
		return false
	}
	elapsed := now.Sub(c.at)
	return elapsed >= 0 && elapsed < doubleClickWindow
}
