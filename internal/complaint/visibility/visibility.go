// Package visibility decides which narrative and evidence entries are
// disclosable to a given viewer. It is pure: entries are never mutated,
// only included or withheld.
package visibility

import (
	"caseline/internal/complaint/models"
	"caseline/pkg/domain"
)

// Entry is any per-entry-visibility record (timeline entries, evidence items).
type Entry interface {
	EntryVisibility() models.Visibility
}

// Viewer is the resolved relationship between an actor and one complaint.
// The guard computes it once per request; the filter only consumes it.
type Viewer struct {
	Actor domain.Actor
	// StationOfficer is true when the actor is an officer of the
	// complaint's station.
	StationOfficer bool
	// Owner is true when the actor is the victim who filed the complaint.
	Owner bool
}

// Visible reports whether the viewer may see the entry.
//
// Station officers see everything. The owning victim sees VICTIM and PUBLIC
// entries. Anyone else sees only PUBLIC entries.
func Visible(entry Entry, viewer Viewer) bool {
	if viewer.StationOfficer {
		return true
	}
	v := entry.EntryVisibility()
	if viewer.Owner {
		return v == models.VisibilityVictim || v == models.VisibilityPublic
	}
	return v == models.VisibilityPublic
}

// FilterTimeline returns the disclosable subset of entries, preserving order.
func FilterTimeline(entries []models.TimelineEntry, viewer Viewer) []models.TimelineEntry {
	out := make([]models.TimelineEntry, 0, len(entries))
	for _, e := range entries {
		if Visible(e, viewer) {
			out = append(out, e)
		}
	}
	return out
}

// FilterEvidence returns the disclosable subset of items, preserving order.
func FilterEvidence(items []models.EvidenceItem, viewer Viewer) []models.EvidenceItem {
	out := make([]models.EvidenceItem, 0, len(items))
	for _, e := range items {
		if Visible(e, viewer) {
			out = append(out, e)
		}
	}
	return out
}
