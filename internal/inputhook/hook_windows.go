//go:build windows

package inputhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"syscall"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"

	"echocast/internal/capture"
)

var (
	user32DLL = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookExW   = user32DLL.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32DLL.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32DLL.NewProc("UnhookWindowsHookEx")
	procGetMessageW         = user32DLL.NewProc("GetMessageW")
	procPeekMessageW        = user32DLL.NewProc("PeekMessageW")
	procPostThreadMessageW  = user32DLL.NewProc("PostThreadMessageW")
	procToUnicodeEx         = user32DLL.NewProc("ToUnicodeEx")
	procGetKeyboardLayout   = user32DLL.NewProc("GetKeyboardLayout")
	procGetForegroundWindow = user32DLL.NewProc("GetForegroundWindow")
	procGetWindowThreadPID  = user32DLL.NewProc("GetWindowThreadProcessId")
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmQuit        = 0x0012
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmSysKeyDown  = 0x0104
	wmSysKeyUp    = 0x0105
	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmXButtonDown = 0x020B
	wmXButtonUp   = 0x020C

	pmNoRemove = 0x0000

	llkhfExtended = 0x01

	// toUnicodeNoStateChange keeps ToUnicodeEx from consuming dead keys
	// typed into other applications.
	toUnicodeNoStateChange = 0x4
)

type point struct {
	x int32
	y int32
}

// winMsg mirrors the Win32 MSG struct.
type winMsg struct {
	hWnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

type kbdLLHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msLLHookStruct struct {
	pt          point
	mouseData   uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

// llHook installs WH_KEYBOARD_LL and WH_MOUSE_LL on a dedicated OS thread.
// Low-level hook procedures carry no user data, so the active hook lives in
// a package variable; only one may run at a time.
type llHook struct {
	emit     EmitFunc
	keyState [256]byte
}

var (
	activeMu   sync.Mutex
	activeHook *llHook

	keyboardProc = windows.NewCallback(lowLevelKeyboardProc)
	mouseProc    = windows.NewCallback(lowLevelMouseProc)
)

func newPlatformHook() Hook {
	return &llHook{}
}

func (h *llHook) Run(ctx context.Context, emit EmitFunc) error {
	if err := user32DLL.Load(); err != nil {
		return fmt.Errorf("%w: user32.dll is unavailable: %v", ErrUnsupported, err)
	}

	activeMu.Lock()
	if activeHook != nil {
		activeMu.Unlock()
		return errors.New("a low-level input hook is already running")
	}
	h.emit = emit
	activeHook = h
	activeMu.Unlock()
	defer func() {
		activeMu.Lock()
		activeHook = nil
		activeMu.Unlock()
	}()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	threadID := windows.GetCurrentThreadId()

	// Force creation of the thread message queue so WM_QUIT can be posted.
	var qmsg winMsg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&qmsg)), 0, 0, 0, pmNoRemove)

	kbHook, err := setHook(whKeyboardLL, keyboardProc)
	if err != nil {
		return fmt.Errorf("install keyboard hook: %w", err)
	}
	defer unhook(kbHook, "keyboard")

	msHook, err := setHook(whMouseLL, mouseProc)
	if err != nil {
		return fmt.Errorf("install mouse hook: %w", err)
	}
	defer unhook(msHook, "mouse")

	slog.Info("[hook] low-level hooks installed", "threadID", threadID)

	loopDone := make(chan struct{})
	defer close(loopDone)
	go func() {
		select {
		case <-ctx.Done():
			if _, _, postErr := procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0); postErr != syscall.Errno(0) {
				slog.Debug("[hook] PostThreadMessageW returned", "error", postErr)
			}
		case <-loopDone:
		}
	}()

	for {
		var msg winMsg
		ret, _, lastErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			return fmt.Errorf("GetMessageW failed: %w", lastErr)
		case 0:
			return nil
		}
	}
}

func setHook(id int, proc uintptr) (uintptr, error) {
	h, _, err := procSetWindowsHookExW.Call(uintptr(id), proc, 0, 0)
	if h == 0 {
		if err == syscall.Errno(0) {
			return 0, errors.New("SetWindowsHookExW failed")
		}
		return 0, err
	}
	return h, nil
}

func unhook(h uintptr, name string) {
	if res, _, err := procUnhookWindowsHookEx.Call(h); res == 0 {
		slog.Warn("[hook] UnhookWindowsHookEx failed", "hook", name, "error", err)
	}
}

func currentHook() *llHook {
	activeMu.Lock()
	defer activeMu.Unlock()
	return activeHook
}

func lowLevelKeyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		if h := currentHook(); h != nil {
			info := (*kbdLLHookStruct)(unsafe.Pointer(lParam))
			h.handleKey(wParam, info)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func lowLevelMouseProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		if h := currentHook(); h != nil {
			info := (*msLLHookStruct)(unsafe.Pointer(lParam))
			h.handleMouse(wParam, info)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func (h *llHook) handleKey(msg uintptr, info *kbdLLHookStruct) {
	vk := info.vkCode & 0xFF
	key := keyFromVK(info.vkCode, info.flags&llkhfExtended != 0)

	switch msg {
	case wmKeyDown, wmSysKeyDown:
		h.setKeyState(vk, true)
		ev := capture.RawEvent{Kind: capture.RawKeyPress, Key: key, RawCode: info.vkCode}
		if text, ok := h.translateText(info); ok {
			ev.Text = text
			ev.HasText = true
		}
		h.emit(ev)
	case wmKeyUp, wmSysKeyUp:
		h.setKeyState(vk, false)
		h.emit(capture.RawEvent{Kind: capture.RawKeyRelease, Key: key, RawCode: info.vkCode})
	}
}

// setKeyState keeps a private keyboard state array; GetKeyboardState does
// not see keys pressed in other threads from inside a low-level hook.
func (h *llHook) setKeyState(vk uint32, down bool) {
	set := func(i uint32) {
		if down {
			h.keyState[i] |= 0x80
		} else {
			h.keyState[i] &^= 0x80
		}
	}
	set(vk)
	switch vk {
	case vkLShift, vkRShift:
		set(vkShift)
	case vkLControl, vkRControl:
		set(vkControl)
	case vkLMenu, vkRMenu:
		set(vkMenu)
	}
	if vk == vkCapital && down {
		h.keyState[vkCapital] ^= 0x01
	}
}

// translateText resolves the character the foreground window's layout would
// produce for this key press.
func (h *llHook) translateText(info *kbdLLHookStruct) (string, bool) {
	var buf [8]uint16
	layout := foregroundLayout()
	n, _, _ := procToUnicodeEx.Call(
		uintptr(info.vkCode),
		uintptr(info.scanCode),
		uintptr(unsafe.Pointer(&h.keyState[0])),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		toUnicodeNoStateChange,
		layout,
	)
	count := int32(n)
	if count <= 0 {
		return "", false
	}
	return string(utf16.Decode(buf[:count])), true
}

func foregroundLayout() uintptr {
	hwnd, _, _ := procGetForegroundWindow.Call()
	var tid uintptr
	if hwnd != 0 {
		tid, _, _ = procGetWindowThreadPID.Call(hwnd, 0)
	}
	layout, _, _ := procGetKeyboardLayout.Call(tid)
	return layout
}

func (h *llHook) handleMouse(msg uintptr, info *msLLHookStruct) {
	switch msg {
	case wmMouseMove:
		h.emit(capture.MouseMove(float64(info.pt.x), float64(info.pt.y)))
	case wmLButtonDown:
		h.emit(capture.ButtonPress(capture.ButtonLeft))
	case wmLButtonUp:
		h.emit(capture.ButtonRelease(capture.ButtonLeft))
	case wmRButtonDown:
		h.emit(capture.ButtonPress(capture.ButtonRight))
	case wmRButtonUp:
		h.emit(capture.ButtonRelease(capture.ButtonRight))
	case wmMButtonDown:
		h.emit(capture.ButtonPress(capture.ButtonMiddle))
	case wmMButtonUp:
		h.emit(capture.ButtonRelease(capture.ButtonMiddle))
	case wmXButtonDown:
		h.emit(capture.ButtonPress(xButton(info.mouseData)))
	case wmXButtonUp:
		h.emit(capture.ButtonRelease(xButton(info.mouseData)))
	}
}

// xButton maps XBUTTON1/XBUTTON2 (high word of mouseData) to extra buttons.
func xButton(mouseData uint32) capture.Button {
	return capture.Button(3 + mouseData>>16)
}

func checkPermission() bool {
	return true
}

func requestPermission() bool {
	return true
}
