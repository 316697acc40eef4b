// Package evidence implements the append-only evidence collection, keyed by
// complaint identifier. Items are references (URLs), never file contents.
package evidence

import (
	"context"
	"sync"

	"caseline/internal/complaint/models"
	"caseline/pkg/domain"
)

// InMemory is the in-memory evidence store for tests and single-process
// deployments.
type InMemory struct {
	mu    sync.RWMutex
	items map[domain.ComplaintID][]models.EvidenceItem
}

// NewInMemory creates an empty in-memory evidence store.
func NewInMemory() *InMemory {
	return &InMemory{items: make(map[domain.ComplaintID][]models.EvidenceItem)}
}

// Append adds an evidence item at the tail of the complaint's collection.
// The service guarantees the parent complaint exists before calling in.
func (s *InMemory) Append(_ context.Context, item models.EvidenceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ComplaintID] = append(s.items[item.ComplaintID], item)
	return nil
}

// List returns all evidence items in insertion order. A complaint without
// evidence yields an empty slice, not an error.
func (s *InMemory) List(_ context.Context, id domain.ComplaintID) ([]models.EvidenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.items[id]
	out := make([]models.EvidenceItem, len(items))
	copy(out, items)
	return out, nil
}
