//go:build windows

package overlay

import (
	"fmt"
	"log/slog"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32DLL = windows.NewLazySystemDLL("user32.dll")

	procFindWindowW       = user32DLL.NewProc("FindWindowW")
	procGetWindowLongPtrW = user32DLL.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW = user32DLL.NewProc("SetWindowLongPtrW")
)

const (
	// gwlExStyle is GWL_EXSTYLE (-20) as the unsigned value the Win32 ABI expects.
	gwlExStyle = ^uintptr(19)

	wsExTransparent = 0x00000020
	wsExLayered     = 0x00080000
)

func setIgnoreCursorEvents(title string, ignore bool) error {
	if err := user32DLL.Load(); err != nil {
		return fmt.Errorf("user32.dll is unavailable: %w", err)
	}

	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return fmt.Errorf("encode window title: %w", err)
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(titlePtr)))
	if hwnd == 0 {
		return fmt.Errorf("%w: %q", ErrWindowNotFound, title)
	}

	style, _, _ := procGetWindowLongPtrW.Call(hwnd, gwlExStyle)
	next := style | wsExLayered
	if ignore {
		next |= wsExTransparent
	} else {
		next &^= wsExTransparent
	}
	if next == style {
		return nil
	}

	prev, _, callErr := procSetWindowLongPtrW.Call(hwnd, gwlExStyle, next)
	if prev == 0 && callErr != syscall.Errno(0) {
		return fmt.Errorf("SetWindowLongPtrW failed: %w", callErr)
	}
	slog.Debug("[overlay] extended style updated", "ignore", ignore, "style", next)
	return nil
}
