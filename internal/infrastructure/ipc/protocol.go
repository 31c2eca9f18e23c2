// Package ipc serves the pane command surface and the relayed event stream
// over a Unix socket using newline-delimited JSON.
package ipc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// CmdSubscribe turns a connection into an event stream.
	CmdSubscribe = "subscribe"

	// SubscribeAll receives every event regardless of target.
	SubscribeAll = "*"

	socketFileName = "panehost.sock"
	maxLineSize    = 1024 * 1024
)

// SubscribeRequest is the envelope that starts an event stream.
type SubscribeRequest struct {
	ID   string `json:"id,omitempty"`
	Cmd  string `json:"cmd"`
	Name string `json:"name"`
}

// SubscribeResult is the result of a successful subscribe.
type SubscribeResult struct {
	Subscription string `json:"subscription"`
	Name         string `json:"name"`
}

// StreamEvent is one event line on a subscribed connection.
type StreamEvent struct {
	Event   string          `json:"event"`
	Target  string          `json:"target,omitempty"`
	Payload json.RawMessage `json:"payload"`
	At      string          `json:"at,omitempty"`
}

// envelopeHead is decoded first to pick between a command and a subscribe.
type envelopeHead struct {
	ID   string `json:"id"`
	Cmd  string `json:"cmd"`
	Name string `json:"name"`
}

// DefaultSocketPath returns $XDG_RUNTIME_DIR/panehost.sock, or a per-user
// path in the temp directory when the runtime dir is unset.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, socketFileName)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("panehost-%d.sock", os.Getuid()))
}
