package entity

import (
	"encoding/json"
	"time"
)

// JournalEntry is one persisted pane-telemetry event.
type JournalEntry struct {
	ID        int64
	SessionID string
	Label     string
	Kind      TelemetryKind
	Timestamp time.Time
	Payload   json.RawMessage
}

// NewJournalEntry builds an entry from a relayed telemetry payload. The
// timestamp falls back to now when the payload carries none.
func NewJournalEntry(sessionID string, ev TelemetryEvent, now time.Time) (*JournalEntry, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	ts := now
	if ms := ev.Timestamp(); ms > 0 {
		ts = time.UnixMilli(ms)
	}
	return &JournalEntry{
		SessionID: sessionID,
		Label:     ev.Label(),
		Kind:      ev.Kind(),
		Timestamp: ts,
		Payload:   raw,
	}, nil
}

// KindCount is the number of journaled events of one kind.
type KindCount struct {
	Kind  TelemetryKind `json:"kind"`
	Count int64         `json:"count"`
}
