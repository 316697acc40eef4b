// Package http assembles the service's HTTP surface: middleware chain, auth
// boundary, route registration and the operational endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	complainthandler "caseline/internal/complaint/handler"
	identityhandler "caseline/internal/identity/handler"
	"caseline/internal/platform/middleware"
)

const requestTimeout = 30 * time.Second

// Deps carries everything the router mounts.
type Deps struct {
	Identity   *identityhandler.Handler
	Complaints *complainthandler.Handler
	Verifier   middleware.TokenVerifier
	Logger     *slog.Logger
	Health     http.HandlerFunc
}

// NewRouter wires the middleware chain and mounts all routes. Auth routes are
// public; everything under the complaint surface requires a verified bearer
// token.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", deps.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	deps.Identity.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Verifier, deps.Logger))
		deps.Complaints.Register(r)
	})

	return r
}
