package audit

import (
	"context"
	"sync"

	"caseline/pkg/domain"
)

// InMemoryStore keeps audit events in process memory. Used by tests and by
// deployments without a persistent audit backend.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByComplaint(_ context.Context, id domain.ComplaintID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		if e.ComplaintID == id {
			out = append(out, e)
		}
	}
	return out, nil
}
