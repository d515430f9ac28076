//go:build windows

package inputhook

import "echocast/internal/capture"

const (
	vkBack     = 0x08
	vkTab      = 0x09
	vkReturn   = 0x0D
	vkShift    = 0x10
	vkControl  = 0x11
	vkMenu     = 0x12
	vkPause    = 0x13
	vkCapital  = 0x14
	vkKana     = 0x15
	vkConvert  = 0x1C
	vkNonConv  = 0x1D
	vkEscape   = 0x1B
	vkSpace    = 0x20
	vkPrior    = 0x21
	vkNext     = 0x22
	vkEnd      = 0x23
	vkHome     = 0x24
	vkLeft     = 0x25
	vkUp       = 0x26
	vkRight    = 0x27
	vkDown     = 0x28
	vkSnapshot = 0x2C
	vkInsert   = 0x2D
	vkDelete   = 0x2E
	vkLWin     = 0x5B
	vkRWin     = 0x5C
	vkNumpad0  = 0x60
	vkMultiply = 0x6A
	vkAdd      = 0x6B
	vkSubtract = 0x6D
	vkDecimal  = 0x6E
	vkDivide   = 0x6F
	vkF1       = 0x70
	vkNumLock  = 0x90
	vkScroll   = 0x91
	vkLShift   = 0xA0
	vkRShift   = 0xA1
	vkLControl = 0xA2
	vkRControl = 0xA3
	vkLMenu    = 0xA4
	vkRMenu    = 0xA5
	vkOem1     = 0xBA
	vkOemPlus  = 0xBB
	vkOemComma = 0xBC
	vkOemMinus = 0xBD
	vkOemDot   = 0xBE
	vkOem2     = 0xBF
	vkOem3     = 0xC0
	vkOem4     = 0xDB
	vkOem5     = 0xDC
	vkOem6     = 0xDD
	vkOem7     = 0xDE
	vkOem102   = 0xE2
	vkOemAttn  = 0xF0
)

var vkKeys = map[uint32]capture.Key{
	vkBack:     capture.KeyBackspace,
	vkTab:      capture.KeyTab,
	vkReturn:   capture.KeyReturn,
	vkPause:    capture.KeyPause,
	vkCapital:  capture.KeyCapsLock,
	vkKana:     capture.KeyKana,
	vkConvert:  capture.KeyHenkan,
	vkNonConv:  capture.KeyMuhenkan,
	vkOemAttn:  capture.KeyEisu,
	vkEscape:   capture.KeyEscape,
	vkSpace:    capture.KeySpace,
	vkPrior:    capture.KeyPageUp,
	vkNext:     capture.KeyPageDown,
	vkEnd:      capture.KeyEnd,
	vkHome:     capture.KeyHome,
	vkLeft:     capture.KeyLeftArrow,
	vkUp:       capture.KeyUpArrow,
	vkRight:    capture.KeyRightArrow,
	vkDown:     capture.KeyDownArrow,
	vkSnapshot: capture.KeyPrintScreen,
	vkInsert:   capture.KeyInsert,
	vkDelete:   capture.KeyDelete,
	vkLWin:     capture.MetaLeft,
	vkRWin:     capture.MetaRight,
	vkMultiply: capture.KeyKpMultiply,
	vkAdd:      capture.KeyKpPlus,
	vkSubtract: capture.KeyKpMinus,
	vkDecimal:  capture.KeyKpDecimal,
	vkDivide:   capture.KeyKpDivide,
	vkNumLock:  capture.KeyNumLock,
	vkScroll:   capture.KeyScrollLock,
	vkLShift:   capture.ShiftLeft,
	vkRShift:   capture.ShiftRight,
	vkLControl: capture.ControlLeft,
	vkRControl: capture.ControlRight,
	vkLMenu:    capture.Alt,
	vkRMenu:    capture.AltGr,
	vkOem1:     capture.KeySemiColon,
	vkOemPlus:  capture.KeyEqual,
	vkOemComma: capture.KeyComma,
	vkOemMinus: capture.KeyMinus,
	vkOemDot:   capture.KeyDot,
	vkOem2:     capture.KeySlash,
	vkOem3:     capture.KeyBackQuote,
	vkOem4:     capture.KeyLeftBracket,
	vkOem5:     capture.KeyBackSlash,
	vkOem6:     capture.KeyRightBracket,
	vkOem7:     capture.KeyQuote,
	vkOem102:   capture.KeyIntlBackslash,
}

// keyFromVK maps a virtual-key code. extended distinguishes the keypad Enter
// from the main one.
func keyFromVK(vk uint32, extended bool) capture.Key {
	switch {
	case vk >= 'A' && vk <= 'Z':
		return capture.KeyA + capture.Key(vk-'A')
	case vk >= '0' && vk <= '9':
		return capture.Num0 + capture.Key(vk-'0')
	case vk >= vkNumpad0 && vk <= vkNumpad0+9:
		return capture.KeyKp0 + capture.Key(vk-vkNumpad0)
	case vk >= vkF1 && vk < vkF1+12:
		return capture.KeyF1 + capture.Key(vk-vkF1)
	case vk == vkReturn && extended:
		return capture.KeyKpReturn
	}
	if k, ok := vkKeys[vk]; ok {
		return k
	}
	return capture.KeyUnknown
}
