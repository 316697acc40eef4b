// Package store persists identity accounts. Emails are unique per account
// type; stores return sentinel errors and leave coded errors to the service.
package store

import (
	"context"
	"sync"

	"caseline/internal/identity/models"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
)

// InMemory is the in-memory identity store for tests and single-process
// deployments.
type InMemory struct {
	mu              sync.RWMutex
	victims         map[domain.VictimID]*models.Victim
	victimsByEmail  map[string]domain.VictimID
	officers        map[domain.OfficerID]*models.Officer
	officersByEmail map[string]domain.OfficerID
}

// NewInMemory creates an empty in-memory identity store.
func NewInMemory() *InMemory {
	return &InMemory{
		victims:         make(map[domain.VictimID]*models.Victim),
		victimsByEmail:  make(map[string]domain.VictimID),
		officers:        make(map[domain.OfficerID]*models.Officer),
		officersByEmail: make(map[string]domain.OfficerID),
	}
}

// CreateVictim stores a new victim account. Returns sentinel.ErrConflict if
// the email is taken.
func (s *InMemory) CreateVictim(_ context.Context, v *models.Victim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.victimsByEmail[v.Email]; exists {
		return sentinel.ErrConflict
	}
	cp := *v
	s.victims[v.ID] = &cp
	s.victimsByEmail[v.Email] = v.ID
	return nil
}

// FindVictimByEmail returns the victim account or sentinel.ErrNotFound.
func (s *InMemory) FindVictimByEmail(_ context.Context, email string) (*models.Victim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.victimsByEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.victims[id]
	return &cp, nil
}

// CreateOfficer stores a new officer account. Returns sentinel.ErrConflict if
// the email is taken.
func (s *InMemory) CreateOfficer(_ context.Context, o *models.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.officersByEmail[o.Email]; exists {
		return sentinel.ErrConflict
	}
	cp := *o
	s.officers[o.ID] = &cp
	s.officersByEmail[o.Email] = o.ID
	return nil
}

// FindOfficerByEmail returns the officer account or sentinel.ErrNotFound.
func (s *InMemory) FindOfficerByEmail(_ context.Context, email string) (*models.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.officersByEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.officers[id]
	return &cp, nil
}
