package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// LedgerEvent is the change-feed message published after every committed
// ledger mutation. ID is empty for a clear.
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id,omitempty"`
	Persisted bool      `json:"persisted"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with at, or now when at is zero.
func NewLedgerEvent(kind, id string, persisted bool, at time.Time) *LedgerEvent {
	if at.IsZero() {
		at = time.Now()
	}
	return &LedgerEvent{
		Kind:      kind,
		ID:        id,
		Persisted: persisted,
		Timestamp: at.UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes an event and rejects one without a kind.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind == "" {
		return nil, fmt.Errorf("ledger event without kind")
	}
	return &msg, nil
}
