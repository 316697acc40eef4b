package handler

import (
	"time"

	"caseline/internal/complaint/models"
)

type complaintResponse struct {
	ID                string    `json:"id"`
	VictimID          string    `json:"victim_id"`
	StationID         string    `json:"station_id"`
	AssignedOfficerID string    `json:"assigned_officer_id,omitempty"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	IncidentLocation  string    `json:"incident_location,omitempty"`
	Category          string    `json:"category"`
	Severity          string    `json:"severity"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func renderComplaint(c *models.Complaint) complaintResponse {
	resp := complaintResponse{
		ID:               c.ID.String(),
		VictimID:         c.VictimID.String(),
		StationID:        c.StationID.String(),
		Title:            c.Title,
		Description:      c.Description,
		IncidentLocation: c.IncidentLocation,
		Category:         string(c.Category),
		Severity:         string(c.Severity),
		Status:           string(c.Status),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if !c.AssignedOfficerID.IsZero() {
		resp.AssignedOfficerID = c.AssignedOfficerID.String()
	}
	return resp
}

type summaryResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	Severity         string    `json:"severity"`
	Status           string    `json:"status"`
	StationID        string    `json:"station_id"`
	IncidentLocation string    `json:"incident_location,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func renderSummaries(list []models.ComplaintSummary) []summaryResponse {
	out := make([]summaryResponse, len(list))
	for i, s := range list {
		out[i] = summaryResponse{
			ID:               s.ID.String(),
			Title:            s.Title,
			Category:         string(s.Category),
			Severity:         string(s.Severity),
			Status:           string(s.Status),
			StationID:        s.StationID.String(),
			IncidentLocation: s.IncidentLocation,
			CreatedAt:        s.CreatedAt,
			UpdatedAt:        s.UpdatedAt,
		}
	}
	return out
}

type historyEntryResponse struct {
	Status    string    `json:"status"`
	OfficerID string    `json:"officer_id,omitempty"`
	Remarks   string    `json:"remarks"`
	Timestamp time.Time `json:"timestamp"`
}

type timelineEntryResponse struct {
	Text       string    `json:"text"`
	AuthorRole string    `json:"author_role"`
	AuthorID   string    `json:"author_id,omitempty"`
	AuthorName string    `json:"author_name,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Visibility string    `json:"visibility"`
}

func renderTimelineEntry(e models.TimelineEntry) timelineEntryResponse {
	resp := timelineEntryResponse{
		Text:       e.Text,
		AuthorRole: string(e.AuthorRole),
		AuthorName: e.AuthorName,
		Timestamp:  e.Timestamp,
		Visibility: string(e.Visibility),
	}
	if e.AuthorRole != models.AuthorSystem {
		resp.AuthorID = e.AuthorID.String()
	}
	return resp
}

type evidenceItemResponse struct {
	Kind        string    `json:"kind"`
	Ref         string    `json:"ref"`
	Description string    `json:"description,omitempty"`
	OfficerID   string    `json:"uploaded_by_officer_id"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Visibility  string    `json:"visibility"`
	Tags        []string  `json:"tags,omitempty"`
}

func renderEvidenceItem(e models.EvidenceItem) evidenceItemResponse {
	return evidenceItemResponse{
		Kind:        string(e.Kind),
		Ref:         e.Ref,
		Description: e.Description,
		OfficerID:   e.OfficerID.String(),
		UploadedAt:  e.UploadedAt,
		Visibility:  string(e.Visibility),
		Tags:        e.Tags,
	}
}

type caseViewResponse struct {
	Complaint complaintResponse       `json:"complaint"`
	History   []historyEntryResponse  `json:"history"`
	Timeline  []timelineEntryResponse `json:"timeline"`
	Evidence  []evidenceItemResponse  `json:"evidence"`
}

func renderCaseView(v *models.CaseView) caseViewResponse {
	history := make([]historyEntryResponse, len(v.History))
	for i, h := range v.History {
		history[i] = historyEntryResponse{
			Status:    string(h.Status),
			Remarks:   h.Remarks,
			Timestamp: h.Timestamp,
		}
		if !h.OfficerID.IsZero() {
			history[i].OfficerID = h.OfficerID.String()
		}
	}
	tl := make([]timelineEntryResponse, len(v.Timeline))
	for i, e := range v.Timeline {
		tl[i] = renderTimelineEntry(e)
	}
	ev := make([]evidenceItemResponse, len(v.Evidence))
	for i, e := range v.Evidence {
		ev[i] = renderEvidenceItem(e)
	}
	return caseViewResponse{
		Complaint: renderComplaint(&v.Complaint),
		History:   history,
		Timeline:  tl,
		Evidence:  ev,
	}
}
