package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"caseline/internal/audit"
	"caseline/internal/complaint/guard"
	"caseline/internal/complaint/models"
	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
	"caseline/pkg/requestcontext"
)

// TransitionInput is the validated payload for a status change request.
type TransitionInput struct {
	To      models.Status
	Remarks string
}

// TransitionStatus moves a complaint to a new status. The write protocol has
// three steps:
//
//  1. CAS update of the record's status, revalidated under the store lock.
//     This step alone decides whether the transition happened.
//  2. Append a status history entry to the record store.
//  3. Append a SYSTEM narrative entry to the timeline log.
//
// Steps 2 and 3 are projections of step 1. They are retried but never rolled
// back; a failed projection leaves the record authoritative and the flags on
// its transition record mark what still needs applying. Resubmitting the same
// transition completes missing projections instead of failing on the now
// illegal status pair.
func (s *Service) TransitionStatus(ctx context.Context, actor domain.Actor, id domain.ComplaintID, in TransitionInput) (*models.Complaint, error) {
	timer := prometheus.NewTimer(s.metrics.TransitionDuration)
	defer timer.ObserveDuration()

	unlock := s.locks.lock(id)
	defer unlock()

	c, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err)
	}
	if err := guard.CanTransitionStatus(c, actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Remarks) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "remarks are required for a status change")
	}

	// Same logical transition resubmitted: the status write already
	// happened, so only complete whatever projections are still missing.
	if c.Status == in.To && c.LastTransition != nil && c.LastTransition.Matches(in.To, in.Remarks) {
		return s.completeProjections(ctx, c, true), nil
	}

	if err := c.CanTransition(in.To); err != nil {
		return nil, err
	}
	preStatus := c.Status

	now := requestcontext.Now(ctx)
	updated, err := s.records.Execute(ctx, id,
		func(cur *models.Complaint) error {
			return cur.CanTransition(in.To)
		},
		func(cur *models.Complaint) {
			cur.ApplyTransition(in.To, in.Remarks, actor.OfficerID(), now)
			if in.To == models.StatusInvestigation && cur.AssignedOfficerID.IsZero() {
				cur.AssignedOfficerID = actor.OfficerID()
			}
		},
	)
	if err != nil {
		// The pre-check passed, so a legality failure here means the
		// status moved underneath the caller.
		if dErrors.HasCode(err, dErrors.CodeInvalidTransition) {
			s.metrics.TransitionConflicts.Inc()
		}
		return nil, s.translate(err)
	}

	s.metrics.TransitionsApplied.WithLabelValues(string(in.To)).Inc()
	updated = s.completeProjections(ctx, updated, false)

	s.emitAudit(ctx, audit.Event{
		ComplaintID: updated.ID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Action:      audit.ActionStatusChanged,
		Detail:      fmt.Sprintf("%s -> %s", preStatus, in.To),
	})
	return updated, nil
}

// completeProjections applies the history and timeline projections of the
// complaint's last transition, skipping those already flagged as applied.
// resubmit enables a dedup read: a crash between an append and its flag write
// would otherwise double-append on the retry path.
func (s *Service) completeProjections(ctx context.Context, c *models.Complaint, resubmit bool) *models.Complaint {
	tr := c.LastTransition
	if tr == nil {
		return c
	}

	if !tr.HistoryApplied {
		applied := resubmit && s.historyExists(ctx, c.ID, *tr)
		if !applied {
			applied = s.applyWithRetry(ctx, c, "history", func() error {
				return s.records.AppendHistory(ctx, models.StatusHistoryEntry{
					ComplaintID: c.ID,
					Status:      tr.ToStatus,
					OfficerID:   tr.OfficerID,
					Remarks:     tr.Remarks,
					Timestamp:   tr.At,
				})
			})
		}
		if applied {
			c = s.markProjection(ctx, c, func(rec *models.TransitionRecord) {
				rec.HistoryApplied = true
			})
		}
	}

	tr = c.LastTransition
	if !tr.TimelineApplied {
		applied := resubmit && s.timelineExists(ctx, c.ID, *tr)
		if !applied {
			applied = s.applyWithRetry(ctx, c, "timeline", func() error {
				return s.timeline.Append(ctx, models.TimelineEntry{
					ComplaintID: c.ID,
					Text:        models.SystemTimelineText(tr.ToStatus, tr.Remarks),
					AuthorRole:  models.AuthorSystem,
					Timestamp:   tr.At,
					Visibility:  models.VisibilityVictim,
				})
			})
		}
		if applied {
			c = s.markProjection(ctx, c, func(rec *models.TransitionRecord) {
				rec.TimelineApplied = true
			})
		}
	}

	return c
}

// applyWithRetry runs one projection step with a bounded retry budget.
// Reports whether the step landed.
func (s *Service) applyWithRetry(ctx context.Context, c *models.Complaint, step string, apply func() error) bool {
	var lastErr error
	for attempt := 1; attempt <= s.projectionRetries; attempt++ {
		if lastErr = apply(); lastErr == nil {
			return true
		}
		s.metrics.ProjectionRetries.Inc()
		s.logger.Warn("projection step failed",
			"complaint_id", c.ID,
			"status", c.Status,
			"step", step,
			"attempt", attempt,
			"error", lastErr,
		)
	}
	s.metrics.ProjectionFailures.Inc()
	s.logger.Error("projection did not converge",
		"complaint_id", c.ID,
		"status", c.Status,
		"step", step,
		"error", lastErr,
	)
	return false
}

// markProjection records a landed projection on the complaint's transition
// record. Best-effort: losing the flag only means a redundant dedup read on
// the next resubmission.
func (s *Service) markProjection(ctx context.Context, c *models.Complaint, mark func(*models.TransitionRecord)) *models.Complaint {
	tr := *c.LastTransition
	updated, err := s.records.Execute(ctx, c.ID, nil, func(cur *models.Complaint) {
		if cur.LastTransition != nil && cur.LastTransition.Matches(tr.ToStatus, tr.Remarks) {
			mark(cur.LastTransition)
		}
	})
	if err != nil {
		s.logger.Warn("record projection flag",
			"complaint_id", c.ID,
			"error", err,
		)
		mark(c.LastTransition)
		return c
	}
	return updated
}

func (s *Service) historyExists(ctx context.Context, id domain.ComplaintID, tr models.TransitionRecord) bool {
	entries, err := s.records.ListHistory(ctx, id)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Status == tr.ToStatus && e.Remarks == tr.Remarks && e.Timestamp.Equal(tr.At) {
			return true
		}
	}
	return false
}

func (s *Service) timelineExists(ctx context.Context, id domain.ComplaintID, tr models.TransitionRecord) bool {
	entries, err := s.timeline.List(ctx, id)
	if err != nil {
		return false
	}
	text := models.SystemTimelineText(tr.ToStatus, tr.Remarks)
	for _, e := range entries {
		if e.AuthorRole == models.AuthorSystem && e.Text == text && e.Timestamp.Equal(tr.At) {
			return true
		}
	}
	return false
}
