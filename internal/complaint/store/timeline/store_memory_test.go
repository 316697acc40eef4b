package timeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"caseline/internal/complaint/models"
	"caseline/internal/complaint/store/timeline"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
)

type TimelineStoreSuite struct {
	suite.Suite
	store *timeline.InMemory
	id    domain.ComplaintID
}

func TestTimelineStoreSuite(t *testing.T) {
	suite.Run(t, new(TimelineStoreSuite))
}

func (s *TimelineStoreSuite) SetupTest() {
	s.store = timeline.NewInMemory()
	s.id = domain.NewComplaintID()
}

func (s *TimelineStoreSuite) TestAppendRequiresLog() {
	err := s.store.Append(context.Background(), models.TimelineEntry{ComplaintID: s.id, Text: "orphan"})
	s.ErrorIs(err, sentinel.ErrNotFound, "no entry without its parent log")

	_, err = s.store.List(context.Background(), s.id)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *TimelineStoreSuite) TestEnsureLogIdempotent() {
	s.Require().NoError(s.store.EnsureLog(context.Background(), s.id))

	entries, err := s.store.List(context.Background(), s.id)
	s.Require().NoError(err)
	s.Empty(entries, "a fresh log is empty, not missing")

	s.Require().NoError(s.store.Append(context.Background(), models.TimelineEntry{ComplaintID: s.id, Text: "first"}))
	s.Require().NoError(s.store.EnsureLog(context.Background(), s.id))

	entries, err = s.store.List(context.Background(), s.id)
	s.Require().NoError(err)
	s.Len(entries, 1, "re-ensuring never truncates")
}

func (s *TimelineStoreSuite) TestInsertionOrder() {
	s.Require().NoError(s.store.EnsureLog(context.Background(), s.id))

	base := time.Now()
	// Client timestamps deliberately run backwards; the log order is the
	// append order.
	for i, text := range []string{"first", "second", "third"} {
		s.Require().NoError(s.store.Append(context.Background(), models.TimelineEntry{
			ComplaintID: s.id,
			Text:        text,
			Timestamp:   base.Add(-time.Duration(i) * time.Minute),
		}))
	}

	entries, err := s.store.List(context.Background(), s.id)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("first", entries[0].Text)
	s.Equal("third", entries[2].Text)
}
