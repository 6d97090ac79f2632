package ledger

import (
	"context"
	"time"
)

type EventKind string

const (
	EventAdded   EventKind = "added"
	EventRemoved EventKind = "removed"
	EventCleared EventKind = "cleared"
)

// Event describes one committed mutation. ID is empty for EventCleared.
type Event struct {
	Kind      EventKind
	ID        string
	Persisted bool
	At        time.Time
}

// Notifier receives an Event after each mutation.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// notify publishes outside the store lock. A failing notifier never affects
// the mutation that triggered it.
func (s *Store) notify(ctx context.Context, e Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", e.Kind,
			"id", e.ID,
			"error", err)
	}
}
