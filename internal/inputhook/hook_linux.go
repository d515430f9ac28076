//go:build linux

package inputhook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"

	"echocast/internal/capture"
)

const inputDeviceGlob = "/dev/input/event*"

// evdevHook reads every keyboard and pointer device under /dev/input.
// Devices deliver on their own goroutines; translation runs on the Run
// goroutine so emit sees one ordered stream.
type evdevHook struct{}

func newPlatformHook() Hook {
	return &evdevHook{}
}

type deviceEvent struct {
	device string
	ev     evdev.InputEvent
}

type inputDevice struct {
	path string
	dev  *evdev.InputDevice
}

func (h *evdevHook) Run(ctx context.Context, emit EmitFunc) error {
	devices, err := openInputDevices()
	if err != nil {
		return err
	}

	events := make(chan deviceEvent, 256)
	done := make(chan struct{})
	var wg sync.WaitGroup
	for _, dev := range devices {
		wg.Go(func() {
			readDevice(dev, events, done)
		})
	}

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopped)
	}()
	defer func() {
		close(done)
		for _, dev := range devices {
			if closeErr := dev.dev.Close(); closeErr != nil {
				slog.Debug("[hook] close input device failed", "path", dev.path, "error", closeErr)
			}
		}
		<-stopped
	}()

	tr := newEvdevTranslator()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-stopped:
			slog.Warn("[hook] all input devices closed")
			return nil
		case de := <-events:
			for _, raw := range tr.translate(de.device, de.ev) {
				emit(raw)
			}
		}
	}
}

func readDevice(d inputDevice, out chan<- deviceEvent, done <-chan struct{}) {
	for {
		ev, err := d.dev.ReadOne()
		if err != nil {
			slog.Debug("[hook] input device read stopped", "device", d.path, "error", err)
			return
		}
		select {
		case out <- deviceEvent{device: d.path, ev: *ev}:
		case <-done:
			return
		}
	}
}

// openInputDevices opens every device that reports keys, relative motion or
// absolute pointer axes.
func openInputDevices() ([]inputDevice, error) {
	paths, err := filepath.Glob(inputDeviceGlob)
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var (
		devices []inputDevice
		denied  int
	)
	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				denied++
			}
			slog.Debug("[hook] skip input device", "path", path, "error", err)
			continue
		}
		if !isCaptureDevice(dev) {
			_ = dev.Close()
			continue
		}
		name, _ := dev.Name()
		slog.Info("[hook] capturing input device", "path", path, "name", name)
		devices = append(devices, inputDevice{path: path, dev: dev})
	}

	if len(devices) == 0 {
		if denied > 0 {
			return nil, fmt.Errorf("%w: %d devices under /dev/input are not readable (add the user to the input group)", ErrPermissionDenied, denied)
		}
		return nil, fmt.Errorf("%w: no keyboard or pointer devices found", ErrUnsupported)
	}
	return devices, nil
}

func isCaptureDevice(dev *evdev.InputDevice) bool {
	for _, t := range dev.CapableTypes() {
		switch t {
		case evdev.EV_KEY, evdev.EV_REL:
			return true
		case evdev.EV_ABS:
			for _, code := range dev.CapableEvents(evdev.EV_ABS) {
				if code == evdev.ABS_X {
					return true
				}
			}
		}
	}
	return false
}

func checkPermission() bool {
	paths, err := filepath.Glob(inputDeviceGlob)
	if err != nil {
		return false
	}
	for _, path := range paths {
		if unix.Access(path, unix.R_OK) == nil {
			return true
		}
	}
	return false
}

// requestPermission cannot prompt on Linux; access is granted through group
// membership outside the process.
func requestPermission() bool {
	return checkPermission()
}

// evdevTranslator turns kernel input events into raw events. Relative motion
// is accumulated into an absolute position and flushed on SYN_REPORT.
type evdevTranslator struct {
	x, y    float64
	moved   map[string]bool
	pending map[string][2]float64
}

func newEvdevTranslator() *evdevTranslator {
	return &evdevTranslator{
		moved:   make(map[string]bool),
		pending: make(map[string][2]float64),
	}
}

func (t *evdevTranslator) translate(device string, ev evdev.InputEvent) []capture.RawEvent {
	switch ev.Type {
	case evdev.EV_SYN:
		if ev.Code != evdev.SYN_REPORT || !t.moved[device] {
			return nil
		}
		delta := t.pending[device]
		t.x = max(t.x+delta[0], 0)
		t.y = max(t.y+delta[1], 0)
		delete(t.pending, device)
		delete(t.moved, device)
		return []capture.RawEvent{capture.MouseMove(t.x, t.y)}

	case evdev.EV_REL:
		delta := t.pending[device]
		switch ev.Code {
		case evdev.REL_X:
			delta[0] += float64(ev.Value)
		case evdev.REL_Y:
			delta[1] += float64(ev.Value)
		default:
			return nil
		}
		t.pending[device] = delta
		t.moved[device] = true
		return nil

	case evdev.EV_ABS:
		// Absolute devices report device units; the delta from the current
		// position is queued like relative motion.
		delta := t.pending[device]
		switch ev.Code {
		case evdev.ABS_X:
			delta[0] = float64(ev.Value) - t.x
		case evdev.ABS_Y:
			delta[1] = float64(ev.Value) - t.y
		default:
			return nil
		}
		t.pending[device] = delta
		t.moved[device] = true
		return nil

	case evdev.EV_KEY:
		return t.translateKey(ev)
	}
	return nil
}

func (t *evdevTranslator) translateKey(ev evdev.InputEvent) []capture.RawEvent {
	const (
		valueRelease = 0
		valuePress   = 1
		valueRepeat  = 2
	)

	if b, ok := evdevButtons[ev.Code]; ok {
		switch ev.Value {
		case valuePress:
			return []capture.RawEvent{capture.ButtonPress(b)}
		case valueRelease:
			return []capture.RawEvent{capture.ButtonRelease(b)}
		}
		return nil
	}
	if ev.Code >= evdev.BTN_MISC && ev.Code < evdev.KEY_OK {
		// Touch, joystick and tool codes.
		return nil
	}

	key := keyFromEvdev(ev.Code)
	raw := capture.RawEvent{Key: key, RawCode: uint32(ev.Code)}
	switch ev.Value {
	case valuePress, valueRepeat:
		raw.Kind = capture.RawKeyPress
	case valueRelease:
		raw.Kind = capture.RawKeyRelease
	default:
		return nil
	}
	return []capture.RawEvent{raw}
}
