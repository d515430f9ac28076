// Package wsserver provides a loopback WebSocket server streaming normalized
// input events to the overlay webview and to local browser sources.
//
// # Text frame protocol
//
// Every frame is a JSON object with a "type" discriminator:
//
//   - hello (server -> client, once per connection):
//     {"type":"hello","clientId":"<uuid>","kinds":["mousemove",...]}
//   - event (server -> client):
//     {"type":"event","kind":"click","label":"@Click[Left]","timestamp":1700000000000}
//   - error (server -> client): {"type":"error","message":"..."}
//   - subscribe / unsubscribe (client -> server):
//     {"action":"subscribe","kinds":["key","system"]}
//
// A new client is subscribed to every kind. Unknown kinds in a subscription
// request are reported with an error frame and otherwise ignored.
package wsserver

import (
	"encoding/json"
	"fmt"

	"echocast/internal/capture"
)

const (
	frameHello = "hello"
	frameEvent = "event"
	frameError = "error"
)

type helloMsg struct {
	Type     string         `json:"type"`
	ClientID string         `json:"clientId"`
	Kinds    []capture.Kind `json:"kinds"`
}

type eventMsg struct {
	Type string `json:"type"`
	capture.Event
}

// errorMsg is the JSON payload for server error notifications sent to the client.
type errorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// subscribeAction and unsubscribeAction are the valid values for subscribeMsg.Action.
const (
	subscribeAction   = "subscribe"
	unsubscribeAction = "unsubscribe"
)

// subscribeMsg is the JSON payload for client subscribe/unsubscribe requests.
type subscribeMsg struct {
	Action string         `json:"action"`
	Kinds  []capture.Kind `json:"kinds"`
}

var knownKinds = func() map[capture.Kind]bool {
	m := make(map[capture.Kind]bool)
	for _, k := range capture.AllKinds() {
		m[k] = true
	}
	return m
}()

// EncodeEvent builds the event frame for ev.
func EncodeEvent(ev capture.Event) ([]byte, error) {
	if !knownKinds[ev.Kind] {
		return nil, fmt.Errorf("wsserver: encode event: unknown kind %q", ev.Kind)
	}
	return json.Marshal(eventMsg{Type: frameEvent, Event: ev})
}

// DecodeEvent parses an event frame produced by EncodeEvent.
func DecodeEvent(frame []byte) (capture.Event, error) {
	var msg eventMsg
	if err := json.Unmarshal(frame, &msg); err != nil {
		return capture.Event{}, fmt.Errorf("wsserver: decode event: %w", err)
	}
	if msg.Type != frameEvent {
		return capture.Event{}, fmt.Errorf("wsserver: decode event: unexpected frame type %q", msg.Type)
	}
	return msg.Event, nil
}

func encodeHello(clientID string, kinds []capture.Kind) ([]byte, error) {
	return json.Marshal(helloMsg{Type: frameHello, ClientID: clientID, Kinds: kinds})
}

func encodeError(message string) ([]byte, error) {
	return json.Marshal(errorMsg{Type: frameError, Message: message})
}
