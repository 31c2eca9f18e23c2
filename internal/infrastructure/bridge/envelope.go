// Package bridge carries messages from page script to the host. Pages call
// window.__panehost.emitTo(target, event, payload) or emit(event, payload);
// the shim serializes an Envelope and posts it through the platform's script
// message handler.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/panehost/internal/application/port"
)

// HandlerName is the script message handler registered on every pane.
const HandlerName = "panehost"

// MaxMessageSize bounds a single posted message.
const MaxMessageSize = 256 * 1024

var (
	// ErrMessageTooLarge is returned for messages over MaxMessageSize.
	ErrMessageTooLarge = errors.New("script message too large")
	// ErrMalformedMessage is returned when a message is not a valid envelope.
	ErrMalformedMessage = errors.New("malformed script message")
)

// Envelope is the wire form of a page message.
type Envelope struct {
	Target  string          `json:"target"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Decode parses a posted message. Platforms that hand over a JSON string
// value (rather than the object itself) are handled too.
func Decode(raw []byte) (port.ScriptMessage, error) {
	if len(raw) > MaxMessageSize {
		return port.ScriptMessage{}, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(raw))
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return port.ScriptMessage{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		trimmed = inner
	}

	var env Envelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return port.ScriptMessage{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.Event == "" {
		return port.ScriptMessage{}, fmt.Errorf("%w: missing event", ErrMalformedMessage)
	}
	if len(env.Payload) == 0 {
		env.Payload = json.RawMessage("null")
	}

	return port.ScriptMessage{
		Target:  env.Target,
		Event:   env.Event,
		Payload: env.Payload,
	}, nil
}

// Encode serializes msg in wire form.
func Encode(msg port.ScriptMessage) ([]byte, error) {
	payload := msg.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return json.Marshal(Envelope{Target: msg.Target, Event: msg.Event, Payload: payload})
}
