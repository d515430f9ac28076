// Package capture turns the raw input stream of a platform hook into
// display-ready events: clicks, double clicks, drags and key chords.
//
// A Normalizer is owned by exactly one goroutine (see Worker). It holds no
// locks; callers must not share it.
package capture

import (
	"fmt"
	"math"
	"time"
)

// Normalizer holds the session state of one capture run.
type Normalizer struct {
	now func() time.Time

	modifiers modifierSet
	paused    bool
	pointer   pointerTracker
	lastClick clickRecord
}

// NewNormalizer creates a normalizer reading time from now. A nil now uses
// time.Now.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{
		now:       now,
		modifiers: newModifierSet(),
	}
}

// Paused reports whether output is currently suppressed.
func (n *Normalizer) Paused() bool {
	return n.paused
}

// TogglePause flips the pause flag and returns the system event announcing
// the new state. The Ctrl+Alt+P chord goes through the same path.
func (n *Normalizer) TogglePause() Event {
	return n.togglePause(n.now())
}

// Process consumes one raw event and returns the normalized events it
// produces, in emission order. Unknown kinds produce nothing.
func (n *Normalizer) Process(ev RawEvent) []Event {
	now := n.now()
	switch ev.Kind {
	case RawMouseMove:
		return n.mouseMove(ev, now)
	case RawButtonPress:
		return n.buttonPress(ev, now)
	case RawButtonRelease:
		return n.buttonRelease(ev, now)
	case RawKeyPress:
		return n.keyPress(ev, now)
	case RawKeyRelease:
		n.modifiers.release(ev.Key)
		return nil
	default:
		return nil
	}
}

func (n *Normalizer) mouseMove(ev RawEvent, now time.Time) []Event {
	var out []Event
	held := n.pointer.button
	if n.pointer.move(Position{X: ev.X, Y: ev.Y}) && !n.paused {
		out = append(out, newEvent(KindDragStart, fmt.Sprintf("@DragStart[%s]", held), now))
	}
	if !n.paused {
		label := fmt.Sprintf("@MouseMove[%d, %d]", int64(math.Round(ev.X)), int64(math.Round(ev.Y)))
		out = append(out, newEvent(KindMouseMove, label, now))
	}
	return out
}

func (n *Normalizer) buttonPress(ev RawEvent, now time.Time) []Event {
	n.pointer.press(ev.Button)
	if n.paused {
		return nil
	}
	return []Event{newEvent(KindMouseDown, fmt.Sprintf("@MouseDown[%s]", ev.Button), now)}
}

func (n *Normalizer) buttonRelease(ev RawEvent, now time.Time) []Event {
	dragged := n.pointer.release()
	if n.paused {
		return nil
	}

	b := ev.Button
	out := []Event{newEvent(KindMouseUp, fmt.Sprintf("@MouseUp[%s]", b), now)}
	if dragged {
		return append(out, newEvent(KindDrag, fmt.Sprintf("@Drag[%s]", b), now))
	}

	out = append(out, newEvent(KindClick, fmt.Sprintf("@Click[%s]", b), now))
	if n.lastClick.isDoubleWith(b, now) {
		out = append(out, newEvent(KindDoubleClick, fmt.Sprintf("@DoubleClick[%s]", b), now))
	}
	n.lastClick = clickRecord{button: b, at: now, valid: true}
	return out
}

func (n *Normalizer) keyPress(ev RawEvent, now time.Time) []Event {
	n.modifiers.press(ev.Key)
	chord := n.modifiers.chord()

	// The chord check precedes pause suppression so it can always resume.
	if chord.ctrl && chord.alt && ev.Key == KeyP {
		return []Event{n.togglePause(now)}
	}
	if n.paused {
		return nil
	}
	if ev.Key.IsModifier() {
		// A modifier alone has no key of its own to show.
		return nil
	}
	return []Event{newEvent(KindKey, keyLabel(ev, chord), now)}
}

func (n *Normalizer) togglePause(now time.Time) Event {
	n.paused = !n.paused
	label := resumedLabel
	if n.paused {
		label = pausedLabel
	}
	return newEvent(KindSystem, label, now)
}

func newEvent(kind Kind, label string, now time.Time) Event {
	return Event{Kind: kind, Label: label, Timestamp: now.UnixMilli()}
}
