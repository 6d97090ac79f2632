package adapters

import (
	"context"

	"piggy/internal/amqp"
	"piggy/internal/ledger"
)

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev amqp.LedgerEvent) error
}

// EventNotifier forwards ledger events to the AMQP change feed.
type EventNotifier struct {
	pub EventPublisher
}

func NewEventNotifier(pub EventPublisher) *EventNotifier {
	return &EventNotifier{pub: pub}
}

// Notify implements ledger.Notifier
func (n *EventNotifier) Notify(ctx context.Context, e ledger.Event) error {
	msg := amqp.NewLedgerEvent(string(e.Kind), e.ID, e.Persisted, e.At)
	return n.pub.PublishLedgerEvent(ctx, *msg)
}
