//go:build darwin

package inputhook

/*
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

static Boolean axIsTrusted(Boolean prompt) {
	const void *keys[] = { kAXTrustedCheckOptionPrompt };
	const void *values[] = { prompt ? kCFBooleanTrue : kCFBooleanFalse };
	CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
	                                             &kCFTypeDictionaryKeyCallBacks,
	                                             &kCFTypeDictionaryValueCallBacks);
	Boolean trusted = AXIsProcessTrustedWithOptions(options);
	CFRelease(options);
	return trusted;
}

extern CGEventRef goInputTapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *userInfo);

static CFMachPortRef createListenTap(uintptr_t handle, CGEventMask mask) {
	return CGEventTapCreate(kCGSessionEventTap,
	                        kCGHeadInsertEventTap,
	                        kCGEventTapOptionListenOnly,
	                        mask,
	                        goInputTapCallback,
	                        (void *)handle);
}

static CGEventMask maskBit(CGEventType type) {
	return ((CGEventMask)1) << type;
}

static CFRunLoopRef currentLoop(void) {
	return CFRunLoopGetCurrent();
}

static void runTap(CFMachPortRef tap, CFRunLoopRef loop) {
	CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
	CFRunLoopAddSource(loop, source, kCFRunLoopCommonModes);
	CGEventTapEnable(tap, true);
	CFRunLoopRun();
	CFRunLoopRemoveSource(loop, source, kCFRunLoopCommonModes);
	CFRelease(source);
}

static void stopLoop(CFRunLoopRef loop) {
	CFRunLoopStop(loop);
}

static void reenableTap(CFMachPortRef tap) {
	CGEventTapEnable(tap, true);
}

static double eventX(CGEventRef event) { return CGEventGetLocation(event).x; }
static double eventY(CGEventRef event) { return CGEventGetLocation(event).y; }

static int64_t eventKeycode(CGEventRef event) {
	return CGEventGetIntegerValueField(event, kCGKeyboardEventKeycode);
}

static int64_t eventButtonNumber(CGEventRef event) {
	return CGEventGetIntegerValueField(event, kCGMouseEventButtonNumber);
}

static int eventText(CGEventRef event, UniChar *buf, int size) {
	UniCharCount n = 0;
	CGEventKeyboardGetUnicodeString(event, (UniCharCount)size, &n, buf);
	return (int)n;
}
*/
import "C"

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/cgo"
	"unicode/utf16"
	"unsafe"

	"echocast/internal/capture"
)

const (
	tapDisabledByTimeout   = 0xFFFFFFFE
	tapDisabledByUserInput = 0xFFFFFFFF
)

// eventTapHook is a listen-only CGEventTap running on a locked OS thread.
type eventTapHook struct{}

func newPlatformHook() Hook {
	return &eventTapHook{}
}

type tapStream struct {
	emit     EmitFunc
	tap      C.CFMachPortRef
	heldMods map[int64]bool
}

func (h *eventTapHook) Run(ctx context.Context, emit EmitFunc) error {
	if C.axIsTrusted(C.Boolean(0)) == C.Boolean(0) {
		return ErrPermissionDenied
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	stream := &tapStream{emit: emit, heldMods: make(map[int64]bool)}
	handle := cgo.NewHandle(stream)
	defer handle.Delete()

	mask := C.maskBit(C.kCGEventKeyDown) |
		C.maskBit(C.kCGEventKeyUp) |
		C.maskBit(C.kCGEventFlagsChanged) |
		C.maskBit(C.kCGEventLeftMouseDown) |
		C.maskBit(C.kCGEventLeftMouseUp) |
		C.maskBit(C.kCGEventRightMouseDown) |
		C.maskBit(C.kCGEventRightMouseUp) |
		C.maskBit(C.kCGEventOtherMouseDown) |
		C.maskBit(C.kCGEventOtherMouseUp) |
		C.maskBit(C.kCGEventMouseMoved) |
		C.maskBit(C.kCGEventLeftMouseDragged) |
		C.maskBit(C.kCGEventRightMouseDragged) |
		C.maskBit(C.kCGEventOtherMouseDragged)

	tap := C.createListenTap(C.uintptr_t(handle), mask)
	if tap == 0 {
		return errors.New("failed to create CGEvent tap")
	}
	defer C.CFRelease(C.CFTypeRef(tap))
	stream.tap = tap

	loop := C.currentLoop()
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			C.stopLoop(loop)
		case <-finished:
		}
	}()

	if ctx.Err() != nil {
		return nil
	}
	slog.Info("[hook] CGEventTap installed")
	C.runTap(tap, loop)
	return nil
}

//export goInputTapCallback
func goInputTapCallback(_ C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, userInfo unsafe.Pointer) C.CGEventRef {
	stream, ok := cgo.Handle(uintptr(userInfo)).Value().(*tapStream)
	if !ok {
		return event
	}

	switch uint32(eventType) {
	case tapDisabledByTimeout, tapDisabledByUserInput:
		slog.Warn("[hook] event tap disabled by the system, re-enabling")
		C.reenableTap(stream.tap)
		return event
	}

	switch eventType {
	case C.kCGEventMouseMoved, C.kCGEventLeftMouseDragged,
		C.kCGEventRightMouseDragged, C.kCGEventOtherMouseDragged:
		stream.emit(capture.MouseMove(float64(C.eventX(event)), float64(C.eventY(event))))
	case C.kCGEventLeftMouseDown:
		stream.emit(capture.ButtonPress(capture.ButtonLeft))
	case C.kCGEventLeftMouseUp:
		stream.emit(capture.ButtonRelease(capture.ButtonLeft))
	case C.kCGEventRightMouseDown:
		stream.emit(capture.ButtonPress(capture.ButtonRight))
	case C.kCGEventRightMouseUp:
		stream.emit(capture.ButtonRelease(capture.ButtonRight))
	case C.kCGEventOtherMouseDown:
		stream.emit(capture.ButtonPress(otherButton(int64(C.eventButtonNumber(event)))))
	case C.kCGEventOtherMouseUp:
		stream.emit(capture.ButtonRelease(otherButton(int64(C.eventButtonNumber(event)))))
	case C.kCGEventKeyDown:
		code := int64(C.eventKeycode(event))
		ev := capture.RawEvent{Kind: capture.RawKeyPress, Key: keyFromMac(code), RawCode: uint32(code)}
		if text := eventText(event); text != "" {
			ev.Text = text
			ev.HasText = true
		}
		stream.emit(ev)
	case C.kCGEventKeyUp:
		code := int64(C.eventKeycode(event))
		stream.emit(capture.RawEvent{Kind: capture.RawKeyRelease, Key: keyFromMac(code), RawCode: uint32(code)})
	case C.kCGEventFlagsChanged:
		stream.flagsChanged(int64(C.eventKeycode(event)))
	}
	return event
}

// flagsChanged turns a modifier flag change into a press or release. The
// event does not say which, so each modifier keycode toggles.
func (s *tapStream) flagsChanged(code int64) {
	key := keyFromMac(code)
	kind := capture.RawKeyPress
	if s.heldMods[code] {
		kind = capture.RawKeyRelease
		delete(s.heldMods, code)
	} else {
		s.heldMods[code] = true
	}
	s.emit(capture.RawEvent{Kind: kind, Key: key, RawCode: uint32(code)})
}

func eventText(event C.CGEventRef) string {
	var buf [8]C.UniChar
	n := int(C.eventText(event, &buf[0], C.int(len(buf))))
	if n <= 0 {
		return ""
	}
	units := make([]uint16, n)
	for i := range n {
		units[i] = uint16(buf[i])
	}
	return string(utf16.Decode(units))
}

// otherButton maps kCGMouseEventButtonNumber (0-based) to a Button.
func otherButton(n int64) capture.Button {
	if n == 2 {
		return capture.ButtonMiddle
	}
	return capture.Button(n + 1)
}

func checkPermission() bool {
	return C.axIsTrusted(C.Boolean(0)) != C.Boolean(0)
}

func requestPermission() bool {
	return C.axIsTrusted(C.Boolean(1)) != C.Boolean(0)
}
