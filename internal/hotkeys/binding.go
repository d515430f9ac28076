package hotkeys

// Modifier is a platform-neutral hotkey modifier bit.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

// modifierOrder fixes the order of modifiers in normalized bindings.
var modifierOrder = []Modifier{ModCtrl, ModAlt, ModShift, ModSuper}

func (m Modifier) String() string {
	switch m {
	case ModCtrl:
		return "Ctrl"
	case ModShift:
		return "Shift"
	case ModAlt:
		return "Alt"
	case ModSuper:
		return "Super"
	default:
		return "Mod"
	}
}

// Binding describes a parsed global hotkey.
// Construct only via ParseBinding to guarantee invariant consistency.
type Binding struct {
	modifiers  Modifier
	key        string
	normalized string
}

// Modifiers returns the modifier bitmask.
func (b Binding) Modifiers() Modifier { return b.modifiers }

// Key returns the canonical key token, e.g. "F12" or "SPACE".
func (b Binding) Key() string { return b.key }

// Normalized returns the canonical human-readable binding string.
func (b Binding) Normalized() string { return b.normalized }

// ModifierList returns the set modifiers in normalized order.
func (b Binding) ModifierList() []Modifier {
	out := make([]Modifier, 0, len(modifierOrder))
	for _, mod := range modifierOrder {
		if b.modifiers&mod != 0 {
			out = append(out, mod)
		}
	}
	return out
}
