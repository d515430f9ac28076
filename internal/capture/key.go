package capture

import "fmt"

// Key identifies a physical key independent of the platform hook that saw it.
type Key uint16

const (
	// KeyUnknown is a key the platform hook could not identify. RawCode on the
	// raw event carries the platform code.
	KeyUnknown Key = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Num0
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9

	// Symbol keys, named by their US-layout position.
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackSlash
	KeySemiColon
	KeyQuote
	KeyBackQuote
	KeyComma
	KeyDot
	KeySlash
	KeyIntlBackslash
	KeyIntlRo
	KeyIntlYen

	KeySpace
	KeyReturn
	KeyBackspace
	KeyTab
	KeyEscape
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUpArrow
	KeyDownArrow
	KeyLeftArrow
	KeyRightArrow
	KeyCapsLock
	KeyNumLock
	KeyScrollLock
	KeyPrintScreen
	KeyPause
	KeyFunction

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyKp0
	KeyKp1
	KeyKp2
	KeyKp3
	KeyKp4
	KeyKp5
	KeyKp6
	KeyKp7
	KeyKp8
	KeyKp9
	KeyKpPlus
	KeyKpMinus
	KeyKpMultiply
	KeyKpDivide
	KeyKpDecimal
	KeyKpReturn

	// IME keys found on JIS keyboards.
	KeyKana
	KeyEisu
	KeyHenkan
	KeyMuhenkan

	ControlLeft
	ControlRight
	ShiftLeft
	ShiftRight
	Alt
	AltGr
	MetaLeft
	MetaRight

	keyCount
)

// keyIdentifiers holds the raw identifier name of each key. Labels fall back
// to these names (minus a leading "Key") when no table maps the key.
var keyIdentifiers = [keyCount]string{
	KeyUnknown: "Unknown",

	KeyA: "KeyA", KeyB: "KeyB", KeyC: "KeyC", KeyD: "KeyD", KeyE: "KeyE",
	KeyF: "KeyF", KeyG: "KeyG", KeyH: "KeyH", KeyI: "KeyI", KeyJ: "KeyJ",
	KeyK: "KeyK", KeyL: "KeyL", KeyM: "KeyM", KeyN: "KeyN", KeyO: "KeyO",
	KeyP: "KeyP", KeyQ: "KeyQ", KeyR: "KeyR", KeyS: "KeyS", KeyT: "KeyT",
	KeyU: "KeyU", KeyV: "KeyV", KeyW: "KeyW", KeyX: "KeyX", KeyY: "KeyY",
	KeyZ: "KeyZ",

	Num0: "Num0", Num1: "Num1", Num2: "Num2", Num3: "Num3", Num4: "Num4",
	Num5: "Num5", Num6: "Num6", Num7: "Num7", Num8: "Num8", Num9: "Num9",

	KeyMinus:         "Minus",
	KeyEqual:         "Equal",
	KeyLeftBracket:   "LeftBracket",
	KeyRightBracket:  "RightBracket",
	KeyBackSlash:     "BackSlash",
	KeySemiColon:     "SemiColon",
	KeyQuote:         "Quote",
	KeyBackQuote:     "BackQuote",
	KeyComma:         "Comma",
	KeyDot:           "Dot",
	KeySlash:         "Slash",
	KeyIntlBackslash: "IntlBackslash",
	KeyIntlRo:        "IntlRo",
	KeyIntlYen:       "IntlYen",

	KeySpace:       "Space",
	KeyReturn:      "Return",
	KeyBackspace:   "Backspace",
	KeyTab:         "Tab",
	KeyEscape:      "Escape",
	KeyDelete:      "Delete",
	KeyInsert:      "Insert",
	KeyHome:        "Home",
	KeyEnd:         "End",
	KeyPageUp:      "PageUp",
	KeyPageDown:    "PageDown",
	KeyUpArrow:     "UpArrow",
	KeyDownArrow:   "DownArrow",
	KeyLeftArrow:   "LeftArrow",
	KeyRightArrow:  "RightArrow",
	KeyCapsLock:    "CapsLock",
	KeyNumLock:     "NumLock",
	KeyScrollLock:  "ScrollLock",
	KeyPrintScreen: "PrintScreen",
	KeyPause:       "Pause",
	KeyFunction:    "Function",

	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",

	KeyKp0: "Kp0", KeyKp1: "Kp1", KeyKp2: "Kp2", KeyKp3: "Kp3", KeyKp4: "Kp4",
	KeyKp5: "Kp5", KeyKp6: "Kp6", KeyKp7: "Kp7", KeyKp8: "Kp8", KeyKp9: "Kp9",
	KeyKpPlus:     "KpPlus",
	KeyKpMinus:    "KpMinus",
	KeyKpMultiply: "KpMultiply",
	KeyKpDivide:   "KpDivide",
	KeyKpDecimal:  "KpDecimal",
	KeyKpReturn:   "KpReturn",

	KeyKana:     "Kana",
	KeyEisu:     "Eisu",
	KeyHenkan:   "Henkan",
	KeyMuhenkan: "Muhenkan",

	ControlLeft:  "ControlLeft",
	ControlRight: "ControlRight",
	ShiftLeft:    "ShiftLeft",
	ShiftRight:   "ShiftRight",
	Alt:          "Alt",
	AltGr:        "AltGr",
	MetaLeft:     "MetaLeft",
	MetaRight:    "MetaRight",
}

// String returns the raw identifier name of the key, e.g. "KeyA" or "ControlLeft".
func (k Key) String() string {
	if k < keyCount && keyIdentifiers[k] != "" {
		return keyIdentifiers[k]
	}
	return fmt.Sprintf("Key(%d)", uint16(k))
}

// IsModifier reports whether k is one of the seven tracked modifier identities.
// AltGr is not one of them; it labels like an ordinary key.
func (k Key) IsModifier() bool {
	switch k {
	case ControlLeft, ControlRight, ShiftLeft, ShiftRight, Alt, MetaLeft, MetaRight:
		return true
	default:
		return false
	}
}
