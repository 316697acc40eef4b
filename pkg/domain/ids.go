// Package domain holds shared domain value types: typed identifiers and the
// actor vocabulary. Typed IDs prevent cross-entity assignment at compile time;
// construct them from external input via the ParseXID helpers so the
// non-nil-UUID invariant is enforced at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "caseline/pkg/domain-errors"
)

type (
	// ComplaintID identifies a filed complaint, the case of record.
	ComplaintID uuid.UUID
	// VictimID identifies the citizen who filed a complaint.
	VictimID uuid.UUID
	// OfficerID identifies a police officer.
	OfficerID uuid.UUID
	// StationID identifies a police station.
	StationID uuid.UUID
)

func (id ComplaintID) String() string { return uuid.UUID(id).String() }
func (id VictimID) String() string    { return uuid.UUID(id).String() }
func (id OfficerID) String() string   { return uuid.UUID(id).String() }
func (id StationID) String() string   { return uuid.UUID(id).String() }

func (id ComplaintID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id VictimID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id OfficerID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
func (id StationID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

// NewComplaintID allocates a fresh complaint identifier.
func NewComplaintID() ComplaintID { return ComplaintID(uuid.New()) }

// NewVictimID allocates a fresh victim identifier.
func NewVictimID() VictimID { return VictimID(uuid.New()) }

// NewOfficerID allocates a fresh officer identifier.
func NewOfficerID() OfficerID { return OfficerID(uuid.New()) }

// NewStationID allocates a fresh station identifier.
func NewStationID() StationID { return StationID(uuid.New()) }

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseComplaintID validates and converts external input into a ComplaintID.
func ParseComplaintID(s string) (ComplaintID, error) {
	u, err := parseUUID(s)
	return ComplaintID(u), err
}

// ParseVictimID validates and converts external input into a VictimID.
func ParseVictimID(s string) (VictimID, error) {
	u, err := parseUUID(s)
	return VictimID(u), err
}

// ParseOfficerID validates and converts external input into an OfficerID.
func ParseOfficerID(s string) (OfficerID, error) {
	u, err := parseUUID(s)
	return OfficerID(u), err
}

// ParseStationID validates and converts external input into a StationID.
func ParseStationID(s string) (StationID, error) {
	u, err := parseUUID(s)
	return StationID(u), err
}
