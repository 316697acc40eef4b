//go:build integration

package record_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"caseline/internal/complaint/models"
	"caseline/internal/complaint/store/record"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
	"caseline/pkg/testutil/containers"
)

type PostgresRecordSuite struct {
	suite.Suite
	store *record.PostgresStore
}

func TestPostgresRecordSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	s := &PostgresRecordSuite{}
	s.store = record.NewPostgres(containers.StartPostgres(t))
	suite.Run(t, s)
}

func (s *PostgresRecordSuite) create() *models.Complaint {
	now := time.Now().UTC().Truncate(time.Microsecond)
	c, err := models.NewComplaint(
		domain.NewComplaintID(), domain.NewVictimID(), domain.NewStationID(),
		"Stolen bicycle", "Taken overnight.", "Market square",
		models.CategoryTheft, models.SeverityMedium, now,
	)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), c))
	return c
}

func (s *PostgresRecordSuite) TestRoundTrip() {
	c := s.create()

	found, err := s.store.FindByID(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Equal(c.Title, found.Title)
	s.Equal(models.StatusPending, found.Status)
	s.Nil(found.LastTransition)
	s.True(found.AssignedOfficerID.IsZero())

	_, err = s.store.FindByID(context.Background(), domain.NewComplaintID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresRecordSuite) TestExecutePersistsTransition() {
	c := s.create()
	officerID := domain.NewOfficerID()
	at := time.Now().UTC().Truncate(time.Microsecond)

	updated, err := s.store.Execute(context.Background(), c.ID,
		func(cur *models.Complaint) error { return cur.CanTransition(models.StatusInvestigation) },
		func(cur *models.Complaint) {
			cur.ApplyTransition(models.StatusInvestigation, "assigned", officerID, at)
			cur.AssignedOfficerID = officerID
		},
	)
	s.Require().NoError(err)
	s.Equal(models.StatusInvestigation, updated.Status)

	found, err := s.store.FindByID(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInvestigation, found.Status)
	s.Equal(officerID, found.AssignedOfficerID)
	s.Require().NotNil(found.LastTransition)
	s.Equal("assigned", found.LastTransition.Remarks)
	s.False(found.LastTransition.HistoryApplied)

	// Projection flags persist through Execute.
	_, err = s.store.Execute(context.Background(), c.ID, nil, func(cur *models.Complaint) {
		cur.LastTransition.HistoryApplied = true
	})
	s.Require().NoError(err)
	found, err = s.store.FindByID(context.Background(), c.ID)
	s.Require().NoError(err)
	s.True(found.LastTransition.HistoryApplied)
}

func (s *PostgresRecordSuite) TestExecuteValidationRejection() {
	c := s.create()

	_, err := s.store.Execute(context.Background(), c.ID,
		func(cur *models.Complaint) error { return cur.CanTransition(models.StatusResolved) },
		func(cur *models.Complaint) { cur.Status = models.StatusResolved },
	)
	s.Error(err)

	found, err := s.store.FindByID(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, found.Status, "rejected mutation is rolled back")
}

func (s *PostgresRecordSuite) TestHistoryOrdering() {
	c := s.create()
	officerID := domain.NewOfficerID()
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i, status := range []models.Status{models.StatusInvestigation, models.StatusResolved, models.StatusClosed} {
		s.Require().NoError(s.store.AppendHistory(context.Background(), models.StatusHistoryEntry{
			ComplaintID: c.ID,
			Status:      status,
			OfficerID:   officerID,
			Remarks:     "step",
			Timestamp:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := s.store.ListHistory(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(models.StatusInvestigation, entries[0].Status)
	s.Equal(models.StatusClosed, entries[2].Status)
}
