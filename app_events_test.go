package main

import (
	"context"
	"errors"
	"testing"

	"echocast/internal/capture"
	"echocast/internal/wsserver"
)

func startTestHub(t *testing.T) *wsserver.Hub {
	t.Helper()
	hub := wsserver.NewHub(wsserver.HubOptions{Addr: "127.0.0.1:0"})
	if err := hub.Start(context.Background()); err != nil {
		t.Fatalf("hub.Start() error = %v", err)
	}
	t.Cleanup(func() { _ = hub.Stop() })
	return hub
}

func TestEmitInputEventRouting(t *testing.T) {
	move := capture.Event{Kind: capture.KindMouseMove, Label: "@MouseMove[1, 2]", Timestamp: 1}
	key := capture.Event{Kind: capture.KindKey, Label: "@Key[A]", Timestamp: 2}

	tests := []struct {
		name          string
		withHub       bool
		wsOnlyMoves   bool
		ev            capture.Event
		wantWailsEmit bool
	}{
		{name: "key always reaches frontend", withHub: true, wsOnlyMoves: true, ev: key, wantWailsEmit: true},
		{name: "move kept off bridge", withHub: true, wsOnlyMoves: true, ev: move, wantWailsEmit: false},
		{name: "move on bridge when flag off", withHub: true, wsOnlyMoves: false, ev: move, wantWailsEmit: true},
		{name: "move falls back to bridge without hub", withHub: false, wsOnlyMoves: true, ev: move, wantWailsEmit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, rec, _, _ := newTestApp(t)
			if tt.withHub {
				app.wsHub = startTestHub(t)
			}
			app.wsOnlyMouseMoves.Store(tt.wsOnlyMoves)

			if err := app.emitInputEvent(tt.ev); err != nil {
				t.Fatalf("emitInputEvent() error = %v", err)
			}
			got := rec.named(inputEventName)
			if tt.wantWailsEmit {
				if len(got) != 1 {
					t.Fatalf("input-event emitted %d times, want 1", len(got))
				}
				if got[0].payload != tt.ev {
					t.Fatalf("payload = %#v, want %#v", got[0].payload, tt.ev)
				}
				return
			}
			if len(got) != 0 {
				t.Fatalf("input-event emitted %d times, want 0", len(got))
			}
		})
	}
}

func TestEmitInputEventWithoutRuntimeContext(t *testing.T) {
	rec, _, _ := stubRuntime(t)
	app := NewApp()

	err := app.emitInputEvent(capture.Event{Kind: capture.KindKey, Label: "@Key[A]"})
	if !errors.Is(err, errRuntimeNotReady) {
		t.Fatalf("emitInputEvent() error = %v, want errRuntimeNotReady", err)
	}
	if len(rec.named(inputEventName)) != 0 {
		t.Fatal("event emitted without runtime context")
	}
}

func TestEmitRuntimeEventDropsWithoutContext(t *testing.T) {
	rec, _, _ := stubRuntime(t)
	app := NewApp()

	app.emitRuntimeEvent(toggleSettingsEvent, nil)
	if len(rec.named(toggleSettingsEvent)) != 0 {
		t.Fatal("runtime event emitted with nil context")
	}

	app.setRuntimeContext(context.Background())
	app.emitRuntimeEvent(toggleSettingsEvent, nil)
	if len(rec.named(toggleSettingsEvent)) != 1 {
		t.Fatal("runtime event not emitted with context")
	}
}
