package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"caseline/internal/complaint/guard"
	"caseline/internal/complaint/models"
	"caseline/internal/complaint/visibility"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
)

// GetCase assembles the unified case view: record, status history, narrative
// timeline and evidence, fetched concurrently and filtered per the viewer's
// relationship to the complaint. Existence is resolved before authorization,
// so an unknown ID is NotFound for every caller.
func (s *Service) GetCase(ctx context.Context, actor domain.Actor, id domain.ComplaintID) (*models.CaseView, error) {
	c, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err)
	}
	if err := guard.CanRead(c, actor); err != nil {
		return nil, err
	}

	var (
		history  []models.StatusHistoryEntry
		timeline []models.TimelineEntry
		evidence []models.EvidenceItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = s.records.ListHistory(gctx, id)
		return err
	})
	g.Go(func() error {
		entries, err := s.timeline.List(gctx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			// A log that was never materialized reads as empty; the
			// record stays authoritative.
			return nil
		}
		timeline = entries
		return err
	})
	g.Go(func() error {
		var err error
		evidence, err = s.evidence.List(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.translate(err)
	}

	viewer := guard.ViewerFor(c, actor)
	visibleTimeline := visibility.FilterTimeline(timeline, viewer)
	visibleEvidence := visibility.FilterEvidence(evidence, viewer)

	withheld := (len(timeline) - len(visibleTimeline)) + (len(evidence) - len(visibleEvidence))
	if withheld > 0 {
		s.metrics.EntriesFiltered.Add(float64(withheld))
	}
	s.metrics.CaseViewsServed.Inc()

	return &models.CaseView{
		Complaint: *c,
		History:   history,
		Timeline:  visibleTimeline,
		Evidence:  visibleEvidence,
	}, nil
}
