package capture

import "fmt"

// Button identifies a mouse button. Values above ButtonMiddle are extra
// buttons numbered the way the platform reports them.
type Button uint8

const (
	ButtonLeft Button = iota + 1
	ButtonRight
	ButtonMiddle
)

// String returns the label name of the button ("Left", "Right", "Middle",
// or "Unknown(n)" for extra buttons).
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonMiddle:
		return "Middle"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(b))
	}
}
