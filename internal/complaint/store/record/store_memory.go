package record

import (
	"context"
	"sort"
	"sync"

	"caseline/internal/complaint/models"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
)

// InMemory is the in-memory complaint record store: the structured complaint
// rows plus their append-only status history. Suitable for tests and
// single-process deployments; use the Postgres store in production.
type InMemory struct {
	mu         sync.RWMutex
	complaints map[domain.ComplaintID]*models.Complaint
	history    map[domain.ComplaintID][]models.StatusHistoryEntry
}

// NewInMemory creates an empty in-memory record store.
func NewInMemory() *InMemory {
	return &InMemory{
		complaints: make(map[domain.ComplaintID]*models.Complaint),
		history:    make(map[domain.ComplaintID][]models.StatusHistoryEntry),
	}
}

// Create stores a new complaint. Returns sentinel.ErrConflict if the ID is
// already taken.
func (s *InMemory) Create(_ context.Context, c *models.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.complaints[c.ID]; exists {
		return sentinel.ErrConflict
	}
	s.complaints[c.ID] = clone(c)
	return nil
}

// FindByID returns a copy of the complaint or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, id domain.ComplaintID) (*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.complaints[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(c), nil
}

// ListByVictim returns all complaints owned by the victim, newest first.
func (s *InMemory) ListByVictim(_ context.Context, victimID domain.VictimID) ([]*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Complaint
	for _, c := range s.complaints {
		if c.VictimID == victimID {
			out = append(out, clone(c))
		}
	}
	sortByCreatedDesc(out)
	return out, nil
}

// ListByStation returns all complaints assigned to the station, newest first.
func (s *InMemory) ListByStation(_ context.Context, stationID domain.StationID) ([]*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Complaint
	for _, c := range s.complaints {
		if c.StationID == stationID {
			out = append(out, clone(c))
		}
	}
	sortByCreatedDesc(out)
	return out, nil
}

// Execute atomically validates and mutates one complaint while holding the
// store lock, so a concurrent writer cannot interleave between the check and
// the write. Returns the updated copy.
func (s *InMemory) Execute(_ context.Context, id domain.ComplaintID, validate func(*models.Complaint) error, mutate func(*models.Complaint)) (*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(c); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(c)
	}
	return clone(c), nil
}

// AppendHistory appends a status history entry. The parent complaint must
// exist.
func (s *InMemory) AppendHistory(_ context.Context, entry models.StatusHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.complaints[entry.ComplaintID]; !ok {
		return sentinel.ErrNotFound
	}
	s.history[entry.ComplaintID] = append(s.history[entry.ComplaintID], entry)
	return nil
}

// ListHistory returns the status history in transition order.
func (s *InMemory) ListHistory(_ context.Context, id domain.ComplaintID) ([]models.StatusHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.complaints[id]; !ok {
		return nil, sentinel.ErrNotFound
	}
	entries := s.history[id]
	out := make([]models.StatusHistoryEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func sortByCreatedDesc(cs []*models.Complaint) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].CreatedAt.After(cs[j].CreatedAt) })
}

// clone copies a complaint including its transition record, so callers can
// never reach stored state through a returned value.
func clone(c *models.Complaint) *models.Complaint {
	cp := *c
	if c.LastTransition != nil {
		lt := *c.LastTransition
		cp.LastTransition = &lt
	}
	return &cp
}
