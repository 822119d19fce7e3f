// Package http exposes the extraction engine over a small JSON API.
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	authService       driving.AuthService // nil disables authentication
	extractionService driving.ExtractionService
	batchService      driving.BatchService
	corpusService     driving.CorpusService

	// Infrastructure
	db          Pinger // PostgreSQL health check (optional)
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server. authService may be nil, which
// leaves every endpoint open (development mode); db and redisClient may
// be nil and are only used for readiness checks.
func NewServer(
	cfg Config,
	authService driving.AuthService,
	extractionService driving.ExtractionService,
	batchService driving.BatchService,
	corpusService driving.CorpusService,
	db Pinger,
	redisClient Pinger,
) *Server {
	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		authService:       authService,
		extractionService: extractionService,
		batchService:      batchService,
		corpusService:     corpusService,
		db:                db,
		redisClient:       redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoint (public)
	s.router.HandleFunc("POST /api/v1/auth/token", s.handleIssueToken)

	// Extraction endpoints (authenticated)
	s.router.Handle("POST /api/v1/extract",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleExtract)))
	s.router.Handle("POST /api/v1/extract/batch",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleExtractBatch)))

	// Corpus endpoints (authenticated)
	s.router.Handle("GET /api/v1/codes/{code}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetCode)))
	s.router.Handle("GET /api/v1/corpus/status",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCorpusStatus)))
	s.router.Handle("POST /api/v1/corpus/reload",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCorpusReload)))
}

// Start begins listening for requests. Blocks until the server stops.
func (s *Server) Start() error {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the underlying router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
