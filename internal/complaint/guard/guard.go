// Package guard holds the role/ownership authorization checks gating every
// complaint operation. The service resolves NotFound before calling in, so a
// Forbidden from here never leaks existence of an unknown complaint.
package guard

import (
	"caseline/internal/complaint/models"
	"caseline/internal/complaint/visibility"
	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
)

// ViewerFor resolves the actor's relationship to a complaint for the
// visibility filter.
func ViewerFor(c *models.Complaint, actor domain.Actor) visibility.Viewer {
	return visibility.Viewer{
		Actor:          actor,
		StationOfficer: actor.IsOfficer() && actor.StationID == c.StationID,
		Owner:          actor.IsVictim() && actor.VictimID() == c.VictimID,
	}
}

// CanRead permits the owning victim and officers of the complaint's station.
func CanRead(c *models.Complaint, actor domain.Actor) error {
	v := ViewerFor(c, actor)
	if v.Owner || v.StationOfficer {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "not authorized to view this complaint")
}

// CanTransitionStatus permits only officers of the complaint's station.
func CanTransitionStatus(c *models.Complaint, actor domain.Actor) error {
	if !actor.IsOfficer() {
		return dErrors.New(dErrors.CodeForbidden, "only officers may change complaint status")
	}
	if actor.StationID != c.StationID {
		return dErrors.New(dErrors.CodeForbidden, "officer is not attached to the complaint's station")
	}
	return nil
}

// CanAddEvidence permits only officers of the complaint's station.
func CanAddEvidence(c *models.Complaint, actor domain.Actor) error {
	if !actor.IsOfficer() {
		return dErrors.New(dErrors.CodeForbidden, "only officers may add evidence")
	}
	if actor.StationID != c.StationID {
		return dErrors.New(dErrors.CodeForbidden, "officer is not attached to the complaint's station")
	}
	return nil
}

// CanAddNarrative permits the owning victim and officers of the complaint's
// station. SYSTEM entries never pass through here; the engine appends them
// directly.
func CanAddNarrative(c *models.Complaint, actor domain.Actor) error {
	v := ViewerFor(c, actor)
	if v.Owner || v.StationOfficer {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "not authorized to add updates to this complaint")
}

// NarrativeAuthor forces the author role/identifier on a new entry to the
// acting actor's own, never client-supplied.
func NarrativeAuthor(actor domain.Actor) models.AuthorRole {
	if actor.IsOfficer() {
		return models.AuthorPolice
	}
	return models.AuthorVictim
}
