//go:build linux

package inputhook

import (
	evdev "github.com/holoplot/go-evdev"

	"echocast/internal/capture"
)

var evdevButtons = map[evdev.EvCode]capture.Button{
	evdev.BTN_LEFT:   capture.ButtonLeft,
	evdev.BTN_RIGHT:  capture.ButtonRight,
	evdev.BTN_MIDDLE: capture.ButtonMiddle,
	evdev.BTN_SIDE:   capture.Button(8),
	evdev.BTN_EXTRA:  capture.Button(9),
}

var evdevKeys = map[evdev.EvCode]capture.Key{
	evdev.KEY_A: capture.KeyA, evdev.KEY_B: capture.KeyB, evdev.KEY_C: capture.KeyC,
	evdev.KEY_D: capture.KeyD, evdev.KEY_E: capture.KeyE, evdev.KEY_F: capture.KeyF,
	evdev.KEY_G: capture.KeyG, evdev.KEY_H: capture.KeyH, evdev.KEY_I: capture.KeyI,
	evdev.KEY_J: capture.KeyJ, evdev.KEY_K: capture.KeyK, evdev.KEY_L: capture.KeyL,
	evdev.KEY_M: capture.KeyM, evdev.KEY_N: capture.KeyN, evdev.KEY_O: capture.KeyO,
	evdev.KEY_P: capture.KeyP, evdev.KEY_Q: capture.KeyQ, evdev.KEY_R: capture.KeyR,
	evdev.KEY_S: capture.KeyS, evdev.KEY_T: capture.KeyT, evdev.KEY_U: capture.KeyU,
	evdev.KEY_V: capture.KeyV, evdev.KEY_W: capture.KeyW, evdev.KEY_X: capture.KeyX,
	evdev.KEY_Y: capture.KeyY, evdev.KEY_Z: capture.KeyZ,

	evdev.KEY_0: capture.Num0, evdev.KEY_1: capture.Num1, evdev.KEY_2: capture.Num2,
	evdev.KEY_3: capture.Num3, evdev.KEY_4: capture.Num4, evdev.KEY_5: capture.Num5,
	evdev.KEY_6: capture.Num6, evdev.KEY_7: capture.Num7, evdev.KEY_8: capture.Num8,
	evdev.KEY_9: capture.Num9,

	evdev.KEY_MINUS:      capture.KeyMinus,
	evdev.KEY_EQUAL:      capture.KeyEqual,
	evdev.KEY_LEFTBRACE:  capture.KeyLeftBracket,
	evdev.KEY_RIGHTBRACE: capture.KeyRightBracket,
	evdev.KEY_BACKSLASH:  capture.KeyBackSlash,
	evdev.KEY_SEMICOLON:  capture.KeySemiColon,
	evdev.KEY_APOSTROPHE: capture.KeyQuote,
	evdev.KEY_GRAVE:      capture.KeyBackQuote,
	evdev.KEY_COMMA:      capture.KeyComma,
	evdev.KEY_DOT:        capture.KeyDot,
	evdev.KEY_SLASH:      capture.KeySlash,
	evdev.KEY_102ND:      capture.KeyIntlBackslash,
	evdev.KEY_RO:         capture.KeyIntlRo,
	evdev.KEY_YEN:        capture.KeyIntlYen,

	evdev.KEY_SPACE:      capture.KeySpace,
	evdev.KEY_ENTER:      capture.KeyReturn,
	evdev.KEY_BACKSPACE:  capture.KeyBackspace,
	evdev.KEY_TAB:        capture.KeyTab,
	evdev.KEY_ESC:        capture.KeyEscape,
	evdev.KEY_DELETE:     capture.KeyDelete,
	evdev.KEY_INSERT:     capture.KeyInsert,
	evdev.KEY_HOME:       capture.KeyHome,
	evdev.KEY_END:        capture.KeyEnd,
	evdev.KEY_PAGEUP:     capture.KeyPageUp,
	evdev.KEY_PAGEDOWN:   capture.KeyPageDown,
	evdev.KEY_UP:         capture.KeyUpArrow,
	evdev.KEY_DOWN:       capture.KeyDownArrow,
	evdev.KEY_LEFT:       capture.KeyLeftArrow,
	evdev.KEY_RIGHT:      capture.KeyRightArrow,
	evdev.KEY_CAPSLOCK:   capture.KeyCapsLock,
	evdev.KEY_NUMLOCK:    capture.KeyNumLock,
	evdev.KEY_SCROLLLOCK: capture.KeyScrollLock,
	evdev.KEY_SYSRQ:      capture.KeyPrintScreen,
	evdev.KEY_PAUSE:      capture.KeyPause,
	evdev.KEY_FN:         capture.KeyFunction,

	evdev.KEY_F1: capture.KeyF1, evdev.KEY_F2: capture.KeyF2, evdev.KEY_F3: capture.KeyF3,
	evdev.KEY_F4: capture.KeyF4, evdev.KEY_F5: capture.KeyF5, evdev.KEY_F6: capture.KeyF6,
	evdev.KEY_F7: capture.KeyF7, evdev.KEY_F8: capture.KeyF8, evdev.KEY_F9: capture.KeyF9,
	evdev.KEY_F10: capture.KeyF10, evdev.KEY_F11: capture.KeyF11, evdev.KEY_F12: capture.KeyF12,

	evdev.KEY_KP0: capture.KeyKp0, evdev.KEY_KP1: capture.KeyKp1, evdev.KEY_KP2: capture.KeyKp2,
	evdev.KEY_KP3: capture.KeyKp3, evdev.KEY_KP4: capture.KeyKp4, evdev.KEY_KP5: capture.KeyKp5,
	evdev.KEY_KP6: capture.KeyKp6, evdev.KEY_KP7: capture.KeyKp7, evdev.KEY_KP8: capture.KeyKp8,
	evdev.KEY_KP9: capture.KeyKp9,
	evdev.KEY_KPPLUS:     capture.KeyKpPlus,
	evdev.KEY_KPMINUS:    capture.KeyKpMinus,
	evdev.KEY_KPASTERISK: capture.KeyKpMultiply,
	evdev.KEY_KPSLASH:    capture.KeyKpDivide,
	evdev.KEY_KPDOT:      capture.KeyKpDecimal,
	evdev.KEY_KPENTER:    capture.KeyKpReturn,

	evdev.KEY_KATAKANAHIRAGANA: capture.KeyKana,
	evdev.KEY_ZENKAKUHANKAKU:   capture.KeyEisu,
	evdev.KEY_HENKAN:           capture.KeyHenkan,
	evdev.KEY_MUHENKAN:         capture.KeyMuhenkan,

	evdev.KEY_LEFTCTRL:   capture.ControlLeft,
	evdev.KEY_RIGHTCTRL:  capture.ControlRight,
	evdev.KEY_LEFTSHIFT:  capture.ShiftLeft,
	evdev.KEY_RIGHTSHIFT: capture.ShiftRight,
	evdev.KEY_LEFTALT:    capture.Alt,
	evdev.KEY_RIGHTALT:   capture.AltGr,
	evdev.KEY_LEFTMETA:   capture.MetaLeft,
	evdev.KEY_RIGHTMETA:  capture.MetaRight,
}

func keyFromEvdev(code evdev.EvCode) capture.Key {
	if k, ok := evdevKeys[code]; ok {
		return k
	}
	return capture.KeyUnknown
}
