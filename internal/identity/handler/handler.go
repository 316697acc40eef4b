// Package handler exposes registration and login over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"caseline/internal/identity/models"
	"caseline/internal/identity/service"
	"caseline/pkg/domain"
	"caseline/pkg/platform/httputil"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the auth routes. These are the only unauthenticated routes
// in the service.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.registerVictim)
	r.Post("/auth/register/officer", h.registerOfficer)
	r.Post("/auth/login", h.login)
}

type registerVictimRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	StationID string    `json:"station_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) registerVictim(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[registerVictimRequest](w, r)
	if !ok {
		return
	}
	v, err := h.svc.RegisterVictim(r.Context(), service.RegisterVictimInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, accountResponse{
		ID:        v.ID.String(),
		Name:      v.Name,
		Email:     v.Email,
		CreatedAt: v.CreatedAt,
	})
}

type registerOfficerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	BadgeNumber string `json:"badge_number"`
	Rank        string `json:"rank"`
	StationID   string `json:"station_id"`
	Password    string `json:"password"`
}

func (h *Handler) registerOfficer(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[registerOfficerRequest](w, r)
	if !ok {
		return
	}
	stationID, err := domain.ParseStationID(req.StationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	o, err := h.svc.RegisterOfficer(r.Context(), service.RegisterOfficerInput{
		Name:        req.Name,
		Email:       req.Email,
		BadgeNumber: req.BadgeNumber,
		Rank:        req.Rank,
		StationID:   stationID,
		Password:    req.Password,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, accountResponse{
		ID:        o.ID.String(),
		Name:      o.Name,
		Email:     o.Email,
		StationID: o.StationID.String(),
		CreatedAt: o.CreatedAt,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[loginRequest](w, r)
	if !ok {
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	session, err := h.svc.Login(r.Context(), models.NormalizeEmail(req.Email), req.Password, role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
	})
}
