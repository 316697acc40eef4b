// Package service implements the complaint lifecycle operations: filing,
// listing, the status transition engine and the aggregated case view. All
// authorization goes through the guard package; all persistence through the
// store interfaces below so memory and Postgres/Redis backends interchange.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/asaskevich/govalidator"

	"caseline/internal/audit"
	"caseline/internal/complaint/guard"
	"caseline/internal/complaint/models"
	"caseline/internal/platform/metrics"
	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
	"caseline/pkg/platform/sentinel"
	"caseline/pkg/requestcontext"
)

const defaultProjectionRetries = 3

// RecordStore is the authoritative complaint record plus its status history.
type RecordStore interface {
	Create(ctx context.Context, c *models.Complaint) error
	FindByID(ctx context.Context, id domain.ComplaintID) (*models.Complaint, error)
	ListByVictim(ctx context.Context, victimID domain.VictimID) ([]*models.Complaint, error)
	ListByStation(ctx context.Context, stationID domain.StationID) ([]*models.Complaint, error)
	Execute(ctx context.Context, id domain.ComplaintID, validate func(*models.Complaint) error, mutate func(*models.Complaint)) (*models.Complaint, error)
	AppendHistory(ctx context.Context, entry models.StatusHistoryEntry) error
	ListHistory(ctx context.Context, id domain.ComplaintID) ([]models.StatusHistoryEntry, error)
}

// TimelineStore is the append-only narrative log, one per complaint.
type TimelineStore interface {
	EnsureLog(ctx context.Context, id domain.ComplaintID) error
	Append(ctx context.Context, entry models.TimelineEntry) error
	List(ctx context.Context, id domain.ComplaintID) ([]models.TimelineEntry, error)
}

// EvidenceStore is the append-only evidence collection, one per complaint.
type EvidenceStore interface {
	Append(ctx context.Context, item models.EvidenceItem) error
	List(ctx context.Context, id domain.ComplaintID) ([]models.EvidenceItem, error)
}

// Config carries the service dependencies.
type Config struct {
	Records           RecordStore
	Timeline          TimelineStore
	Evidence          EvidenceStore
	Audit             *audit.Publisher
	Metrics           *metrics.Metrics
	Logger            *slog.Logger
	ProjectionRetries int
}

// Service coordinates the complaint lifecycle across the record store and the
// narrative/evidence logs.
type Service struct {
	records           RecordStore
	timeline          TimelineStore
	evidence          EvidenceStore
	audit             *audit.Publisher
	metrics           *metrics.Metrics
	logger            *slog.Logger
	projectionRetries int

	locks complaintLocks
}

// New constructs the complaint service.
func New(cfg Config) *Service {
	retries := cfg.ProjectionRetries
	if retries <= 0 {
		retries = defaultProjectionRetries
	}
	return &Service{
		records:           cfg.Records,
		timeline:          cfg.Timeline,
		evidence:          cfg.Evidence,
		audit:             cfg.Audit,
		metrics:           cfg.Metrics,
		logger:            cfg.Logger,
		projectionRetries: retries,
		locks:             newComplaintLocks(),
	}
}

// CreateComplaintInput is the validated payload for filing a complaint.
type CreateComplaintInput struct {
	StationID        domain.StationID
	Title            string
	Description      string
	IncidentLocation string
	Category         models.Category
	Severity         models.Severity
}

// CreateComplaint files a new complaint for the acting victim. The complaint
// starts PENDING with an empty narrative log.
func (s *Service) CreateComplaint(ctx context.Context, actor domain.Actor, in CreateComplaintInput) (*models.Complaint, error) {
	if !actor.IsVictim() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only victims may file complaints")
	}

	c, err := models.NewComplaint(
		domain.NewComplaintID(),
		actor.VictimID(),
		in.StationID,
		in.Title,
		in.Description,
		in.IncidentLocation,
		in.Category,
		in.Severity,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.records.Create(ctx, c); err != nil {
		return nil, s.translate(err)
	}
	if err := s.timeline.EnsureLog(ctx, c.ID); err != nil {
		// The record is authoritative; a missing log only degrades reads
		// until the next append recreates it.
		s.logger.Error("initialize timeline log",
			"complaint_id", c.ID,
			"error", err,
		)
	}

	s.metrics.ComplaintsCreated.Inc()
	s.emitAudit(ctx, audit.Event{
		ComplaintID: c.ID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Action:      audit.ActionComplaintCreated,
		Detail:      c.Title,
	})
	return c, nil
}

// ListForVictim returns the acting victim's own complaints, newest first.
func (s *Service) ListForVictim(ctx context.Context, actor domain.Actor) ([]models.ComplaintSummary, error) {
	if !actor.IsVictim() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only victims have a personal complaint list")
	}
	cs, err := s.records.ListByVictim(ctx, actor.VictimID())
	if err != nil {
		return nil, s.translate(err)
	}
	return summaries(cs), nil
}

// ListForStation returns complaints filed against the acting officer's
// station, newest first.
func (s *Service) ListForStation(ctx context.Context, actor domain.Actor) ([]models.ComplaintSummary, error) {
	if !actor.IsOfficer() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only officers may list station complaints")
	}
	cs, err := s.records.ListByStation(ctx, actor.StationID)
	if err != nil {
		return nil, s.translate(err)
	}
	return summaries(cs), nil
}

// AddNarrativeInput is the validated payload for a manual timeline entry.
type AddNarrativeInput struct {
	Text       string
	Visibility models.Visibility
}

// AddNarrativeEntry appends a manual note to the complaint's narrative log.
// The author role and identity are forced to the acting actor's own.
func (s *Service) AddNarrativeEntry(ctx context.Context, actor domain.Actor, id domain.ComplaintID, in AddNarrativeInput) (*models.TimelineEntry, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "update text cannot be empty")
	}

	c, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err)
	}
	if err := guard.CanAddNarrative(c, actor); err != nil {
		return nil, err
	}

	vis := in.Visibility
	if vis == "" {
		vis = c.DefaultVisibility
	}
	entry := models.TimelineEntry{
		ComplaintID: c.ID,
		Text:        in.Text,
		AuthorRole:  guard.NarrativeAuthor(actor),
		AuthorID:    actor.ID,
		AuthorName:  actor.Name,
		Timestamp:   requestcontext.Now(ctx),
		Visibility:  vis,
	}
	if err := s.timeline.Append(ctx, entry); err != nil {
		return nil, s.translate(err)
	}

	s.emitAudit(ctx, audit.Event{
		ComplaintID: c.ID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Action:      audit.ActionNarrativeAdded,
	})
	return &entry, nil
}

// AddEvidenceInput is the validated payload for attaching an evidence
// reference.
type AddEvidenceInput struct {
	Kind        models.EvidenceKind
	Ref         string
	Description string
	Visibility  models.Visibility
	Tags        []string
}

// AddEvidence attaches an evidence reference to the complaint. Officers of
// the complaint's station only; the system stores the reference, never the
// file.
func (s *Service) AddEvidence(ctx context.Context, actor domain.Actor, id domain.ComplaintID, in AddEvidenceInput) (*models.EvidenceItem, error) {
	if !govalidator.IsURL(in.Ref) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "evidence ref must be a valid URL")
	}

	c, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err)
	}
	if err := guard.CanAddEvidence(c, actor); err != nil {
		return nil, err
	}

	vis := in.Visibility
	if vis == "" {
		vis = models.VisibilityPrivate
	}
	item := models.EvidenceItem{
		ComplaintID: c.ID,
		Kind:        in.Kind,
		Ref:         in.Ref,
		Description: in.Description,
		OfficerID:   actor.OfficerID(),
		UploadedAt:  requestcontext.Now(ctx),
		Visibility:  vis,
		Tags:        in.Tags,
	}
	if err := s.evidence.Append(ctx, item); err != nil {
		return nil, s.translate(err)
	}

	s.emitAudit(ctx, audit.Event{
		ComplaintID: c.ID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Action:      audit.ActionEvidenceAdded,
		Detail:      string(in.Kind),
	})
	return &item, nil
}

func summaries(cs []*models.Complaint) []models.ComplaintSummary {
	out := make([]models.ComplaintSummary, len(cs))
	for i, c := range cs {
		out[i] = c.Summary()
	}
	return out
}

// translate maps store sentinels to coded domain errors. Domain errors pass
// through untouched.
func (s *Service) translate(err error) error {
	var dErr *dErrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &dErr):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "complaint not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "complaint already exists")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "storage unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.Warn("emit audit event",
			"complaint_id", event.ComplaintID,
			"action", event.Action,
			"error", err,
		)
	}
}
