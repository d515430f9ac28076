package capture

// RawKind discriminates RawEvent.
type RawKind uint8

const (
	RawMouseMove RawKind = iota + 1
	RawButtonPress
	RawButtonRelease
	RawKeyPress
	RawKeyRelease
	// RawWheel is delivered by some hooks but has no normalized form.
	RawWheel
)

// RawEvent is one low-level input event as delivered by a platform hook.
// Only the fields relevant to Kind are meaningful.
type RawEvent struct {
	Kind RawKind

	// RawMouseMove: absolute cursor position.
	X, Y float64

	// RawButtonPress / RawButtonRelease.
	Button Button

	// RawKeyPress / RawKeyRelease.
	Key     Key
	RawCode uint32

	// RawKeyPress only: text the OS resolved for this press, if any.
	Text    string
	HasText bool
}

// MouseMove builds a RawMouseMove event.
func MouseMove(x, y float64) RawEvent {
	return RawEvent{Kind: RawMouseMove, X: x, Y: y}
}

// ButtonPress builds a RawButtonPress event.
func ButtonPress(b Button) RawEvent {
	return RawEvent{Kind: RawButtonPress, Button: b}
}

// ButtonRelease builds a RawButtonRelease event.
func ButtonRelease(b Button) RawEvent {
	return RawEvent{Kind: RawButtonRelease, Button: b}
}

// KeyPress builds a RawKeyPress event without OS text.
func KeyPress(k Key) RawEvent {
	return RawEvent{Kind: RawKeyPress, Key: k}
}

// KeyPressText builds a RawKeyPress event carrying OS-resolved text.
func KeyPressText(k Key, text string) RawEvent {
	return RawEvent{Kind: RawKeyPress, Key: k, Text: text, HasText: true}
}

// KeyRelease builds a RawKeyRelease event.
func KeyRelease(k Key) RawEvent {
	return RawEvent{Kind: RawKeyRelease, Key: k}
}

// Kind tags a normalized event.
type Kind string

const (
	KindMouseMove   Kind = "mousemove"
	KindMouseDown   Kind = "mousedown"
	KindMouseUp     Kind = "mouseup"
	KindClick       Kind = "click"
	KindDoubleClick Kind = "doubleclick"
	KindDragStart   Kind = "dragstart"
	KindDrag        Kind = "drag"
	KindKey         Kind = "key"
	KindSystem      Kind = "system"
)

// AllKinds lists every normalized kind in a stable order.
func AllKinds() []Kind {
	return []Kind{
		KindMouseMove, KindMouseDown, KindMouseUp, KindClick, KindDoubleClick,
		KindDragStart, KindDrag, KindKey, KindSystem,
	}
}

// Event is a display-ready input event. Timestamp is Unix milliseconds.
type Event struct {
	Kind      Kind   `json:"kind"`
	Label     string `json:"label"`
	Timestamp int64  `json:"timestamp"`
}

const (
	pausedLabel  = "Capture Paused"
	resumedLabel = "Capture Resumed"
)
