package wsserver

import (
	"encoding/json"
	"strings"
	"testing"

	"echocast/internal/capture"
)

func TestEncodeEventShape(t *testing.T) {
	t.Parallel()

	frame, err := EncodeEvent(capture.Event{Kind: capture.KindClick, Label: "@Click[Left]", Timestamp: 1700000000123})
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(frame, &got); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	want := map[string]any{
		"type":      "event",
		"kind":      "click",
		"label":     "@Click[Left]",
		"timestamp": float64(1700000000123),
	}
	if len(got) != len(want) {
		t.Fatalf("frame = %s, want exactly %v", frame, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("frame[%q] = %v, want %v", k, got[k], v)
		}
	}

	back, err := DecodeEvent(frame)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if back.Label != "@Click[Left]" || back.Kind != capture.KindClick {
		t.Fatalf("DecodeEvent() = %+v", back)
	}
}

func TestEncodeEventRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	if _, err := EncodeEvent(capture.Event{Kind: "wheel"}); err == nil {
		t.Fatal("EncodeEvent() expected error for unknown kind")
	}
}

func TestDecodeEventErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		frame   string
		wantSub string
	}{
		{name: "invalid json", frame: "{", wantSub: "decode event"},
		{name: "hello frame", frame: `{"type":"hello","clientId":"x"}`, wantSub: "unexpected frame type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeEvent([]byte(tt.frame))
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("DecodeEvent() error = %v, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestEncodeHello(t *testing.T) {
	t.Parallel()

	frame, err := encodeHello("abc", []capture.Kind{capture.KindKey})
	if err != nil {
		t.Fatalf("encodeHello() error = %v", err)
	}
	if string(frame) != `{"type":"hello","clientId":"abc","kinds":["key"]}` {
		t.Fatalf("encodeHello() = %s", frame)
	}
}
