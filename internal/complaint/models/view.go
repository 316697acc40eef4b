package models

import (
	"time"

	"caseline/pkg/domain"
)

// CaseView is the unified, authorization-filtered view of one complaint.
// Timeline is oldest-first (insertion order of the underlying log); History
// is transition order and always complete for authorized viewers, being part
// of the authoritative record.
type CaseView struct {
	Complaint Complaint
	History   []StatusHistoryEntry
	Timeline  []TimelineEntry
	Evidence  []EvidenceItem
}

// ComplaintSummary is the abbreviated listing shape: metadata only, no
// timeline or evidence fetch behind it.
type ComplaintSummary struct {
	ID               domain.ComplaintID
	Title            string
	Category         Category
	Severity         Severity
	Status           Status
	StationID        domain.StationID
	IncidentLocation string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Summary projects a complaint onto its listing shape.
func (c *Complaint) Summary() ComplaintSummary {
	return ComplaintSummary{
		ID:               c.ID,
		Title:            c.Title,
		Category:         c.Category,
		Severity:         c.Severity,
		Status:           c.Status,
		StationID:        c.StationID,
		IncidentLocation: c.IncidentLocation,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
