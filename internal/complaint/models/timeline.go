package models

import (
	"time"

	"github.com/google/uuid"

	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
)

// Visibility governs which viewer roles may see a narrative or evidence
// entry. Filtering happens on the read path; entries are never mutated.
type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityVictim  Visibility = "VICTIM"
	VisibilityPublic  Visibility = "PUBLIC"
)

var validVisibilities = map[Visibility]bool{
	VisibilityPrivate: true,
	VisibilityVictim:  true,
	VisibilityPublic:  true,
}

// ParseVisibility constructs a Visibility from external input. Callers decide
// what an absent value means; empty input is rejected here.
func ParseVisibility(s string) (Visibility, error) {
	v := Visibility(s)
	if !validVisibilities[v] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown visibility")
	}
	return v, nil
}

// AuthorRole tags who authored a timeline entry. POLICE and VICTIM entries
// come from actors; SYSTEM entries only from the transition engine.
type AuthorRole string

const (
	AuthorPolice AuthorRole = "POLICE"
	AuthorVictim AuthorRole = "VICTIM"
	AuthorSystem AuthorRole = "SYSTEM"
)

// TimelineEntry is an append-only note on a complaint's narrative log.
// Ordered by insertion within a complaint, never edited or removed.
type TimelineEntry struct {
	ComplaintID domain.ComplaintID `json:"complaint_id"`
	Text        string             `json:"text"`
	AuthorRole  AuthorRole         `json:"author_role"`
	AuthorID    uuid.UUID          `json:"author_id"`
	AuthorName  string             `json:"author_name,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Visibility  Visibility         `json:"visibility"`
}

// EntryVisibility lets the visibility filter treat timeline and evidence
// entries uniformly.
func (e TimelineEntry) EntryVisibility() Visibility { return e.Visibility }
