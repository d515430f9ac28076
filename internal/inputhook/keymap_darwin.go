//go:build darwin

package inputhook

import "echocast/internal/capture"

// macKeys maps kVK_* virtual keycodes from Carbon's Events.h.
var macKeys = map[int64]capture.Key{
	0x00: capture.KeyA, 0x0B: capture.KeyB, 0x08: capture.KeyC, 0x02: capture.KeyD,
	0x0E: capture.KeyE, 0x03: capture.KeyF, 0x05: capture.KeyG, 0x04: capture.KeyH,
	0x22: capture.KeyI, 0x26: capture.KeyJ, 0x28: capture.KeyK, 0x25: capture.KeyL,
	0x2E: capture.KeyM, 0x2D: capture.KeyN, 0x1F: capture.KeyO, 0x23: capture.KeyP,
	0x0C: capture.KeyQ, 0x0F: capture.KeyR, 0x01: capture.KeyS, 0x11: capture.KeyT,
	0x20: capture.KeyU, 0x09: capture.KeyV, 0x0D: capture.KeyW, 0x07: capture.KeyX,
	0x10: capture.KeyY, 0x06: capture.KeyZ,

	0x1D: capture.Num0, 0x12: capture.Num1, 0x13: capture.Num2, 0x14: capture.Num3,
	0x15: capture.Num4, 0x17: capture.Num5, 0x16: capture.Num6, 0x1A: capture.Num7,
	0x1C: capture.Num8, 0x19: capture.Num9,

	0x1B: capture.KeyMinus,
	0x18: capture.KeyEqual,
	0x21: capture.KeyLeftBracket,
	0x1E: capture.KeyRightBracket,
	0x2A: capture.KeyBackSlash,
	0x29: capture.KeySemiColon,
	0x27: capture.KeyQuote,
	0x32: capture.KeyBackQuote,
	0x2B: capture.KeyComma,
	0x2F: capture.KeyDot,
	0x2C: capture.KeySlash,
	0x0A: capture.KeyIntlBackslash,
	0x5E: capture.KeyIntlRo,
	0x5D: capture.KeyIntlYen,

	0x31: capture.KeySpace,
	0x24: capture.KeyReturn,
	0x33: capture.KeyBackspace,
	0x30: capture.KeyTab,
	0x35: capture.KeyEscape,
	0x75: capture.KeyDelete,
	0x72: capture.KeyInsert,
	0x73: capture.KeyHome,
	0x77: capture.KeyEnd,
	0x74: capture.KeyPageUp,
	0x79: capture.KeyPageDown,
	0x7E: capture.KeyUpArrow,
	0x7D: capture.KeyDownArrow,
	0x7B: capture.KeyLeftArrow,
	0x7C: capture.KeyRightArrow,
	0x39: capture.KeyCapsLock,
	0x47: capture.KeyNumLock,
	0x3F: capture.KeyFunction,

	0x7A: capture.KeyF1, 0x78: capture.KeyF2, 0x63: capture.KeyF3, 0x76: capture.KeyF4,
	0x60: capture.KeyF5, 0x61: capture.KeyF6, 0x62: capture.KeyF7, 0x64: capture.KeyF8,
	0x65: capture.KeyF9, 0x6D: capture.KeyF10, 0x67: capture.KeyF11, 0x6F: capture.KeyF12,

	0x52: capture.KeyKp0, 0x53: capture.KeyKp1, 0x54: capture.KeyKp2, 0x55: capture.KeyKp3,
	0x56: capture.KeyKp4, 0x57: capture.KeyKp5, 0x58: capture.KeyKp6, 0x59: capture.KeyKp7,
	0x5B: capture.KeyKp8, 0x5C: capture.KeyKp9,
	0x45: capture.KeyKpPlus,
	0x4E: capture.KeyKpMinus,
	0x43: capture.KeyKpMultiply,
	0x4B: capture.KeyKpDivide,
	0x41: capture.KeyKpDecimal,
	0x4C: capture.KeyKpReturn,

	0x68: capture.KeyKana,
	0x66: capture.KeyEisu,

	0x3B: capture.ControlLeft,
	0x3E: capture.ControlRight,
	0x38: capture.ShiftLeft,
	0x3C: capture.ShiftRight,
	0x3A: capture.Alt,
	0x3D: capture.AltGr,
	0x37: capture.MetaLeft,
	0x36: capture.MetaRight,
}

func keyFromMac(code int64) capture.Key {
	if k, ok := macKeys[code]; ok {
		return k
	}
	return capture.KeyUnknown
}
