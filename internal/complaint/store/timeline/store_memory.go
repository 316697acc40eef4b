// Package timeline implements the append-only narrative log, keyed by
// complaint identifier. Entries are ordered by insertion, never edited or
// removed; the exposed order is the log order, not client timestamps.
package timeline

import (
	"context"
	"sync"

	"caseline/internal/complaint/models"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
)

// InMemory is the in-memory timeline store for tests and single-process
// deployments.
type InMemory struct {
	mu   sync.RWMutex
	logs map[domain.ComplaintID][]models.TimelineEntry
}

// NewInMemory creates an empty in-memory timeline store.
func NewInMemory() *InMemory {
	return &InMemory{logs: make(map[domain.ComplaintID][]models.TimelineEntry)}
}

// EnsureLog creates the complaint's log if absent. Idempotent.
func (s *InMemory) EnsureLog(_ context.Context, id domain.ComplaintID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[id]; !ok {
		s.logs[id] = nil
	}
	return nil
}

// Append adds an entry at the tail of the complaint's log. The log must have
// been created first; no entry may exist without its parent complaint.
func (s *InMemory) Append(_ context.Context, entry models.TimelineEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[entry.ComplaintID]; !ok {
		return sentinel.ErrNotFound
	}
	s.logs[entry.ComplaintID] = append(s.logs[entry.ComplaintID], entry)
	return nil
}

// List returns all entries in insertion order.
func (s *InMemory) List(_ context.Context, id domain.ComplaintID) ([]models.TimelineEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.logs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make([]models.TimelineEntry, len(entries))
	copy(out, entries)
	return out, nil
}
