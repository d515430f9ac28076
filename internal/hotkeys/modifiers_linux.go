//go:build linux && cgo && hotkey_x11

package hotkeys

import "golang.design/x/hotkey"

// X11 reports Alt as Mod1 and Super as Mod4.
var modifierMap = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.Mod1,
	ModSuper: hotkey.Mod4,
}
