package domain

import (
	"github.com/google/uuid"

	dErrors "caseline/pkg/domain-errors"
)

// Role tags an authenticated actor. The SYSTEM role is reserved for entries
// the engine authors itself; it never appears on a verified session.
type Role string

const (
	RoleVictim  Role = "VICTIM"
	RoleOfficer Role = "OFFICER"
	RoleSystem  Role = "SYSTEM"
)

var validSessionRoles = map[Role]bool{
	RoleVictim:  true,
	RoleOfficer: true,
}

// ParseRole constructs a Role from external input (token claims, requests).
// SYSTEM is rejected: it cannot be claimed by a caller.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !validSessionRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role must be VICTIM or OFFICER")
	}
	return r, nil
}

// Actor is an authenticated entity performing an operation. The ID is the
// victim or officer identifier depending on Role; for officers StationID
// carries the station the officer is attached to.
type Actor struct {
	ID        uuid.UUID
	Role      Role
	StationID StationID
	// Name is the display name carried in the session token, stamped onto
	// narrative entries the actor authors.
	Name string
}

func (a Actor) IsVictim() bool  { return a.Role == RoleVictim }
func (a Actor) IsOfficer() bool { return a.Role == RoleOfficer }

// VictimID returns the actor's identifier as a VictimID. Only meaningful when
// IsVictim reports true.
func (a Actor) VictimID() VictimID { return VictimID(a.ID) }

// OfficerID returns the actor's identifier as an OfficerID. Only meaningful
// when IsOfficer reports true.
func (a Actor) OfficerID() OfficerID { return OfficerID(a.ID) }
