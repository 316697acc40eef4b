package service

import (
	"sync"

	"caseline/pkg/domain"
)

// complaintLocks serializes writers per complaint within this process. The
// Postgres store's row lock covers cross-process writers; this keeps the
// in-memory store honest under the same contract.
//
// Entries are reference counted and removed once the last holder releases,
// so the map stays proportional to in-flight writes rather than to every
// complaint ever touched.
type complaintLocks struct {
	mu   sync.Mutex
	held map[domain.ComplaintID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newComplaintLocks() complaintLocks {
	return complaintLocks{held: make(map[domain.ComplaintID]*lockEntry)}
}

func (l *complaintLocks) lock(id domain.ComplaintID) func() {
	l.mu.Lock()
	e, ok := l.held[id]
	if !ok {
		e = &lockEntry{}
		l.held[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}
