// Package httpserver builds the process's HTTP server with timeouts suited
// to a small JSON API.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server. WriteTimeout must outlast the router's per-request
// timeout middleware so the handler, not the connection, cancels slow
// requests and the client still gets a response body.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
