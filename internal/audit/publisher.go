package audit

import (
	"context"
	"time"

	"caseline/pkg/domain"
)

// Store is the append-only persistence behind the publisher.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByComplaint(ctx context.Context, id domain.ComplaintID) ([]Event, error)
}

// Sink receives events for out-of-process consumers (message broker). Sinks
// are best-effort: a sink failure never fails the operation that emitted the
// event.
type Sink interface {
	Publish(ctx context.Context, event Event)
}

// Publisher captures structured audit events. It is append-only and uses the
// store for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
	sink  Sink
}

// NewPublisher constructs a publisher. sink may be nil when no broker is
// configured.
func NewPublisher(store Store, sink Sink) *Publisher {
	return &Publisher{store: store, sink: sink}
}

// Emit records the event, stamping the time if unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.sink != nil {
		p.sink.Publish(ctx, event)
	}
	return nil
}

// List returns all events recorded for a complaint, oldest first.
func (p *Publisher) List(ctx context.Context, id domain.ComplaintID) ([]Event, error) {
	return p.store.ListByComplaint(ctx, id)
}
