package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseline/pkg/domain"
)

func TestComplaintLocksSerializeSameID(t *testing.T) {
	locks := newComplaintLocks()
	id := domain.NewComplaintID()

	const writers = 50
	counter := 0
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			unlock := locks.lock(id)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, writers, counter)
}

func TestComplaintLocksReleaseEntries(t *testing.T) {
	locks := newComplaintLocks()
	a := domain.NewComplaintID()
	b := domain.NewComplaintID()

	unlockA := locks.lock(a)
	unlockB := locks.lock(b)

	locks.mu.Lock()
	require.Len(t, locks.held, 2)
	locks.mu.Unlock()

	unlockA()
	unlockB()

	locks.mu.Lock()
	assert.Empty(t, locks.held, "released locks must not accumulate")
	locks.mu.Unlock()
}

func TestComplaintLocksSurviveContention(t *testing.T) {
	locks := newComplaintLocks()
	id := domain.NewComplaintID()

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			unlock := locks.lock(id)
			unlock()
		}()
	}
	wg.Wait()

	locks.mu.Lock()
	assert.Empty(t, locks.held)
	locks.mu.Unlock()
}
