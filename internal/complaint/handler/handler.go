// Package handler exposes the complaint lifecycle over HTTP. Handlers only
// parse, delegate and render; every decision lives in the service layer.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"caseline/internal/complaint/models"
	"caseline/internal/complaint/service"
	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
	"caseline/pkg/platform/httputil"
	"caseline/pkg/requestcontext"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the complaint routes. The router must run the auth
// middleware first; every route expects a verified actor in context.
func (h *Handler) Register(r chi.Router) {
	r.Post("/complaints", h.createComplaint)
	r.Get("/complaints/my", h.listMine)
	r.Get("/complaints/station", h.listStation)
	r.Get("/complaints/{complaintID}", h.getCase)
	r.Put("/complaints/{complaintID}/status", h.transitionStatus)
	r.Post("/complaints/{complaintID}/updates", h.addNarrative)
	r.Post("/complaints/{complaintID}/evidence", h.addEvidence)
}

func actorFrom(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := requestcontext.Actor(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return domain.Actor{}, false
	}
	return actor, true
}

func complaintIDFrom(w http.ResponseWriter, r *http.Request) (domain.ComplaintID, bool) {
	id, err := domain.ParseComplaintID(chi.URLParam(r, "complaintID"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.ComplaintID{}, false
	}
	return id, true
}

type createComplaintRequest struct {
	StationID        string `json:"station_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	IncidentLocation string `json:"incident_location"`
	Category         string `json:"category"`
	Severity         string `json:"severity"`
}

func (h *Handler) createComplaint(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[createComplaintRequest](w, r)
	if !ok {
		return
	}

	stationID, err := domain.ParseStationID(req.StationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	severity, err := models.ParseSeverity(req.Severity)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	c, err := h.svc.CreateComplaint(r.Context(), actor, service.CreateComplaintInput{
		StationID:        stationID,
		Title:            req.Title,
		Description:      req.Description,
		IncidentLocation: req.IncidentLocation,
		Category:         category,
		Severity:         severity,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, renderComplaint(c))
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	list, err := h.svc.ListForVictim(r.Context(), actor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, renderSummaries(list))
}

func (h *Handler) listStation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	list, err := h.svc.ListForStation(r.Context(), actor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, renderSummaries(list))
}

func (h *Handler) getCase(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := complaintIDFrom(w, r)
	if !ok {
		return
	}
	view, err := h.svc.GetCase(r.Context(), actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, renderCaseView(view))
}

type transitionRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

func (h *Handler) transitionStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := complaintIDFrom(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[transitionRequest](w, r)
	if !ok {
		return
	}
	to, err := models.ParseStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	c, err := h.svc.TransitionStatus(r.Context(), actor, id, service.TransitionInput{
		To:      to,
		Remarks: req.Remarks,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, renderComplaint(c))
}

type narrativeRequest struct {
	Text       string `json:"text"`
	Visibility string `json:"visibility"`
}

func (h *Handler) addNarrative(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := complaintIDFrom(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[narrativeRequest](w, r)
	if !ok {
		return
	}
	// Empty visibility stays empty; the service falls back to the
	// complaint's default.
	var vis models.Visibility
	if req.Visibility != "" {
		var err error
		if vis, err = models.ParseVisibility(req.Visibility); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	entry, err := h.svc.AddNarrativeEntry(r.Context(), actor, id, service.AddNarrativeInput{
		Text:       req.Text,
		Visibility: vis,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, renderTimelineEntry(*entry))
}

type evidenceRequest struct {
	Kind        string   `json:"kind"`
	Ref         string   `json:"ref"`
	Description string   `json:"description"`
	Visibility  string   `json:"visibility"`
	Tags        []string `json:"tags"`
}

func (h *Handler) addEvidence(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := complaintIDFrom(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[evidenceRequest](w, r)
	if !ok {
		return
	}
	kind, err := models.ParseEvidenceKind(req.Kind)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var vis models.Visibility
	if req.Visibility != "" {
		if vis, err = models.ParseVisibility(req.Visibility); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	item, err := h.svc.AddEvidence(r.Context(), actor, id, service.AddEvidenceInput{
		Kind:        kind,
		Ref:         req.Ref,
		Description: req.Description,
		Visibility:  vis,
		Tags:        req.Tags,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, renderEvidenceItem(*item))
}
