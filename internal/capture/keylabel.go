package capture

import (
	"fmt"
	"strings"
	"unicode"
)

// unmappedKey is what defaultKeyName returns for keys absent from the table.
const unmappedKey = "?"

// layoutLabel is the result of a physical-layout lookup. ConsumesShift is
// true when the text already reflects the Shift state, so the label must not
// repeat "Shift".
type layoutLabel struct {
	Text          string
	ConsumesShift bool
}

// shiftPair is an unshifted/shifted character pair on the JIS layout.
type shiftPair struct {
	plain, shifted string
	consumes       bool
}

// jisLayout maps printable keys to their JIS characters. BackSlash reports
// the RightBracket pair; that is how the reference layout table was defined.
var jisLayout = map[Key]shiftPair{
	KeyA: {"a", "A", true}, KeyB: {"b", "B", true}, KeyC: {"c", "C", true},
	KeyD: {"d", "D", true}, KeyE: {"e", "E", true}, KeyF: {"f", "F", true},
	KeyG: {"g", "G", true}, KeyH: {"h", "H", true}, KeyI: {"i", "I", true},
	KeyJ: {"j", "J", true}, KeyK: {"k", "K", true}, KeyL: {"l", "L", true},
	KeyM: {"m", "M", true}, KeyN: {"n", "N", true}, KeyO: {"o", "O", true},
	KeyP: {"p", "P", true}, KeyQ: {"q", "Q", true}, KeyR: {"r", "R", true},
	KeyS: {"s", "S", true}, KeyT: {"t", "T", true}, KeyU: {"u", "U", true},
	KeyV: {"v", "V", true}, KeyW: {"w", "W", true}, KeyX: {"x", "X", true},
	KeyY: {"y", "Y", true}, KeyZ: {"z", "Z", true},

	Num1: {"1", "!", true},
	Num2: {"2", "\"", true},
	Num3: {"3", "#", true},
	Num4: {"4", "$", true},
	Num5: {"5", "%", true},
	Num6: {"6", "&", true},
	Num7: {"7", "'", true},
	Num8: {"8", "(", true},
	Num9: {"9", ")", true},
	// Shift+0 produces nothing on JIS, so the label keeps an explicit Shift.
	Num0: {"0", "0", false},

	KeyBackQuote:    {"@", "`", true},
	KeyLeftBracket:  {"[", "{", true},
	KeyRightBracket: {"]", "}", true},
	KeyBackSlash:    {"]", "}", true},
	KeyQuote:        {":", "*", true},
	KeySemiColon:    {";", "+", true},
	KeyComma:        {",", "<", true},
	KeyDot:          {".", ">", true},
	KeySlash:        {"/", "?", true},
	KeyMinus:        {"-", "=", true},
	KeyEqual:        {"^", "~", true},
}

// namedLayoutKeys render as fixed words regardless of Shift.
var namedLayoutKeys = map[Key]string{
	KeySpace:     "Space",
	KeyReturn:    "Enter",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyEscape:    "Esc",
}

// lookupLayout resolves k on the JIS layout for the given Shift state.
func lookupLayout(k Key, shift bool) (layoutLabel, bool) {
	if pair, ok := jisLayout[k]; ok {
		text := pair.plain
		if shift {
			text = pair.shifted
		}
		return layoutLabel{Text: text, ConsumesShift: pair.consumes}, true
	}
	if word, ok := namedLayoutKeys[k]; ok {
		return layoutLabel{Text: word}, true
	}
	return layoutLabel{}, false
}

var defaultKeyNames = map[Key]string{
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",

	Num1: "1", Num2: "2", Num3: "3", Num4: "4", Num5: "5",
	Num6: "6", Num7: "7", Num8: "8", Num9: "9", Num0: "0",

	KeySpace:      "Space",
	KeyReturn:     "Enter",
	KeyBackspace:  "Backspace",
	KeyTab:        "Tab",
	KeyEscape:     "Esc",
	KeyUpArrow:    "Up",
	KeyDownArrow:  "Down",
	KeyLeftArrow:  "Left",
	KeyRightArrow: "Right",

	KeyMinus:        "-",
	KeyEqual:        "=",
	KeyLeftBracket:  "[",
	KeyRightBracket: "]",
	KeyBackSlash:    "\\",
	KeySemiColon:    ";",
	KeyQuote:        "'",
	KeyBackQuote:    "`",
	KeyComma:        ",",
	KeyDot:          ".",
	KeySlash:        "/",

	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",
}

// defaultKeyName returns the uppercase shortcut name of k, or "?".
func defaultKeyName(k Key) string {
	if name, ok := defaultKeyNames[k]; ok {
		return name
	}
	return unmappedKey
}

// printableText reports whether OS text can be shown verbatim.
func printableText(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// rawKeyName is the readable fallback for keys no table maps.
func rawKeyName(k Key, rawCode uint32) string {
	if k == KeyUnknown {
		return fmt.Sprintf("Unknown(%d)", rawCode)
	}
	name := k.String()
	if len(name) > 3 && strings.HasPrefix(name, "Key") {
		return name[3:]
	}
	return name
}

// chordState is the modifier snapshot a label is rendered against.
type chordState struct {
	ctrl, alt, shift, meta bool
}

func (c chordState) shortcut() bool {
	return c.ctrl || c.alt || c.meta
}

// resolveKeyText picks the display string for a non-modifier key press and
// reports whether Shift is already reflected in it.
func resolveKeyText(ev RawEvent, chord chordState) (string, bool) {
	text := ""
	consumed := false

	if ev.HasText && printableText(ev.Text) {
		text = ev.Text
		consumed = true
	}
	if ev.Key == KeySpace {
		text = "Space"
		consumed = false
	}

	if chord.shortcut() {
		// Shortcuts name the key itself and always spell out Shift.
		return defaultKeyName(ev.Key), false
	}
	if text != "" {
		return text, consumed
	}
	if label, ok := lookupLayout(ev.Key, chord.shift); ok {
		return label.Text, label.ConsumesShift && chord.shift
	}
	return defaultKeyName(ev.Key), false
}

// keyLabel assembles the full "@Key[...]" label for a non-modifier press.
func keyLabel(ev RawEvent, chord chordState) string {
	text, consumed := resolveKeyText(ev, chord)

	parts := make([]string, 0, 5)
	if chord.ctrl {
		parts = append(parts, "Ctrl")
	}
	if chord.alt {
		parts = append(parts, "Alt")
	}
	if chord.shift && !consumed {
		parts = append(parts, "Shift")
	}
	if chord.meta {
		parts = append(parts, "Meta")
	}
	if text == unmappedKey {
		text = rawKeyName(ev.Key, ev.RawCode)
	}
	parts = append(parts, text)

	return "@Key[" + strings.Join(parts, "+") + "]"
}
