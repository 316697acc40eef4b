package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
)

// Status is the lifecycle state of a complaint.
//
// Invariant: transitions follow the fixed table below; the table is owned by
// this type and nothing else in the system decides legality.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusInvestigation Status = "INVESTIGATION"
	StatusResolved      Status = "RESOLVED"
	StatusClosed        Status = "CLOSED"
)

// legalSuccessors is the single source of truth for the status state machine.
// CLOSED is terminal; RESOLVED may reopen to INVESTIGATION.
var legalSuccessors = map[Status]map[Status]bool{
	StatusPending:       {StatusInvestigation: true, StatusClosed: true},
	StatusInvestigation: {StatusResolved: true, StatusClosed: true},
	StatusResolved:      {StatusInvestigation: true, StatusClosed: true},
	StatusClosed:        {},
}

func (s Status) IsValid() bool {
	_, ok := legalSuccessors[s]
	return ok
}

// CanTransitionTo reports whether to is a legal successor of s.
func (s Status) CanTransitionTo(to Status) bool {
	return legalSuccessors[s][to]
}

// Successors returns the legal successor set, sorted for stable error
// messages and caller feedback.
func (s Status) Successors() []Status {
	out := make([]Status, 0, len(legalSuccessors[s]))
	for next := range legalSuccessors[s] {
		out = append(out, next)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseStatus constructs a Status from external input.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown status")
	}
	return st, nil
}

// Category classifies the reported incident.
type Category string

const (
	CategoryTheft      Category = "THEFT"
	CategoryAssault    Category = "ASSAULT"
	CategoryCybercrime Category = "CYBERCRIME"
	CategoryTraffic    Category = "TRAFFIC"
	CategoryGeneral    Category = "GENERAL"
)

var validCategories = map[Category]bool{
	CategoryTheft:      true,
	CategoryAssault:    true,
	CategoryCybercrime: true,
	CategoryTraffic:    true,
	CategoryGeneral:    true,
}

// ParseCategory constructs a Category from external input. Empty input
// defaults to GENERAL.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryGeneral, nil
	}
	c := Category(s)
	if !validCategories[c] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown category")
	}
	return c, nil
}

// Severity grades the urgency of a complaint.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var validSeverities = map[Severity]bool{
	SeverityLow:      true,
	SeverityMedium:   true,
	SeverityHigh:     true,
	SeverityCritical: true,
}

// ParseSeverity constructs a Severity from external input. Empty input
// defaults to LOW.
func ParseSeverity(s string) (Severity, error) {
	if s == "" {
		return SeverityLow, nil
	}
	sev := Severity(s)
	if !validSeverities[sev] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown severity")
	}
	return sev, nil
}

// TransitionRecord is the last applied transition of a complaint, tracked on
// the record for idempotent re-submission. HistoryApplied/TimelineApplied
// mark which projections of the authoritative status write have landed.
type TransitionRecord struct {
	ToStatus        Status
	Remarks         string
	OfficerID       domain.OfficerID
	At              time.Time
	HistoryApplied  bool
	TimelineApplied bool
}

// Matches reports whether a resubmitted transition is the same logical
// request as the last applied one.
func (t TransitionRecord) Matches(to Status, remarks string) bool {
	return t.ToStatus == to && t.Remarks == remarks
}

// Complaint is the structured case-of-record entity a citizen files.
//
// Invariants:
//   - Status only changes through the transition engine's CAS update
//   - VictimID, StationID, CreatedAt are immutable after construction
//   - Status is PENDING at creation
type Complaint struct {
	ID                domain.ComplaintID
	VictimID          domain.VictimID
	StationID         domain.StationID
	AssignedOfficerID domain.OfficerID // zero when unassigned
	Title             string
	Description       string
	IncidentLocation  string
	Category          Category
	Severity          Severity
	Status            Status
	DefaultVisibility Visibility
	LastTransition    *TransitionRecord
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewComplaint constructs a pending complaint owned by the filing victim.
func NewComplaint(id domain.ComplaintID, victimID domain.VictimID, stationID domain.StationID, title, description, location string, category Category, severity Severity, now time.Time) (*Complaint, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "title cannot be empty")
	}
	if len(title) > 200 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "title must be 200 characters or less")
	}
	if strings.TrimSpace(description) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "description cannot be empty")
	}
	if victimID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "victim id is required")
	}
	if stationID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "station id is required")
	}
	return &Complaint{
		ID:                id,
		VictimID:          victimID,
		StationID:         stationID,
		Title:             title,
		Description:       description,
		IncidentLocation:  location,
		Category:          category,
		Severity:          severity,
		Status:            StatusPending,
		DefaultVisibility: VisibilityVictim,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// CanTransition validates a requested status change against the table.
// Returns CodeInvalidTransition with the allowed successor set for caller
// feedback.
func (c *Complaint) CanTransition(to Status) error {
	if !c.Status.CanTransitionTo(to) {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"cannot transition from %s to %s (allowed: %s)",
			c.Status, to, formatSuccessors(c.Status.Successors()))
	}
	return nil
}

// ApplyTransition moves the complaint to its new status and records the
// transition for idempotent re-submission. Call CanTransition first.
// The transition time is truncated to microseconds, the finest precision
// that survives a timestamptz column, so projection dedup can compare it
// for equality after a database round trip.
func (c *Complaint) ApplyTransition(to Status, remarks string, officerID domain.OfficerID, now time.Time) {
	at := now.Truncate(time.Microsecond)
	c.Status = to
	c.LastTransition = &TransitionRecord{
		ToStatus:  to,
		Remarks:   remarks,
		OfficerID: officerID,
		At:        at,
	}
	c.UpdatedAt = at
}

func formatSuccessors(succ []Status) string {
	if len(succ) == 0 {
		return "none"
	}
	parts := make([]string, len(succ))
	for i, s := range succ {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// StatusHistoryEntry is an immutable record of one status the complaint has
// held. Append-only, ordered by timestamp.
type StatusHistoryEntry struct {
	ComplaintID domain.ComplaintID
	Status      Status
	OfficerID   domain.OfficerID
	Remarks     string
	Timestamp   time.Time
}

// SystemTimelineText is the system narrative emitted for a status change.
// The wording is part of the external contract; tooling greps for it.
func SystemTimelineText(to Status, remarks string) string {
	return fmt.Sprintf("Status changed to %s: %s", to, remarks)
}
