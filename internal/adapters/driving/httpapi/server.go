// Package httpapi exposes the query pipeline over HTTP.
package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/veridian-labs/docqa/internal/core/ports/driving"
	"github.com/veridian-labs/docqa/internal/logger"
)

// DefaultRequestTimeout bounds one whole answering request, including
// document download, retries and backoff.
const DefaultRequestTimeout = 5 * time.Minute

// Config holds HTTP server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// AuthToken guards the API endpoints when set. Empty disables auth.
	AuthToken string

	// MaxQuestions caps questions per request (default: 20).
	MaxQuestions int

	// RequestTimeout bounds one answering request.
	RequestTimeout time.Duration
}

// Server serves the question-answering API.
type Server struct {
	cfg      Config
	svc      driving.QueryService
	server   *http.Server
	listener net.Listener
}

// NewServer creates an HTTP server around the query service.
func NewServer(cfg Config, svc driving.QueryService) *Server {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 20
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	s := &Server{cfg: cfg, svc: svc}
	s.server = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
	}
	return s
}

// routes wires the endpoint handlers. The health endpoint stays
// outside auth so load balancers can probe it.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("POST /api/v1/run", s.requireAuth(http.HandlerFunc(s.handleRun)))
	mux.Handle("GET /api/v1/status", s.requireAuth(http.HandlerFunc(s.handleStatus)))
	mux.Handle("POST /api/v1/clear", s.requireAuth(http.HandlerFunc(s.handleClear)))
	return mux
}

// Start begins listening on the configured address. It returns once
// the listener is bound; serving continues on a background goroutine
// until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("http server: %v", err)
		}
	}()

	logger.Info("listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound listen address. Valid after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
