package models

import (
	"time"

	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
)

// EvidenceKind classifies an evidence item.
type EvidenceKind string

const (
	EvidenceImage    EvidenceKind = "IMAGE"
	EvidenceVideo    EvidenceKind = "VIDEO"
	EvidenceDocument EvidenceKind = "DOCUMENT"
)

var validEvidenceKinds = map[EvidenceKind]bool{
	EvidenceImage:    true,
	EvidenceVideo:    true,
	EvidenceDocument: true,
}

// ParseEvidenceKind constructs an EvidenceKind from external input.
func ParseEvidenceKind(s string) (EvidenceKind, error) {
	k := EvidenceKind(s)
	if !validEvidenceKinds[k] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "evidence kind must be IMAGE, VIDEO or DOCUMENT")
	}
	return k, nil
}

// EvidenceItem is an append-only evidence reference attached to a complaint.
// The system stores references (URLs), never file contents. Officers only;
// defaults to PRIVATE visibility.
type EvidenceItem struct {
	ComplaintID domain.ComplaintID `json:"complaint_id"`
	Kind        EvidenceKind       `json:"kind"`
	Ref         string             `json:"ref"`
	Description string             `json:"description,omitempty"`
	OfficerID   domain.OfficerID   `json:"uploaded_by_officer_id"`
	UploadedAt  time.Time          `json:"uploaded_at"`
	Visibility  Visibility         `json:"visibility"`
	Tags        []string           `json:"tags,omitempty"`
}

// EntryVisibility lets the visibility filter treat timeline and evidence
// entries uniformly.
func (e EvidenceItem) EntryVisibility() Visibility { return e.Visibility }
