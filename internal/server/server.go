// Package server exposes the interview service over HTTP: the embedded chat
// front end, the interview endpoints, and a WebSocket monitor feed.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/candidlab/interviewd/internal/config"
	"github.com/candidlab/interviewd/internal/interview"
	"github.com/candidlab/interviewd/internal/logging"
)

//go:embed web
var webFS embed.FS

// Server is the interviewd HTTP server.
type Server struct {
	cfg        config.Config
	conductor  *interview.Conductor
	monitor    *Monitor
	keyPresent bool
	log        *logging.Logger

	httpServer *http.Server
}

// New creates a server over the given conductor. keyPresent feeds the health
// endpoint so deployments can verify their credential wiring without making
// a completion call.
func New(cfg config.Config, conductor *interview.Conductor, monitor *Monitor, keyPresent bool, log *logging.Logger) *Server {
	return &Server{
		cfg:        cfg,
		conductor:  conductor,
		monitor:    monitor,
		keyPresent: keyPresent,
		log:        log.Sub("server"),
	}
}

// Routes returns the fully wired handler. Exposed for tests.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /start_interview", s.handleStartInterview)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /score_interview", s.handleScoreInterview)
	mux.HandleFunc("POST /get_unique_id", s.handleGetUniqueID)
	mux.HandleFunc("GET /export_mapping", s.handleExportMapping)
	mux.HandleFunc("GET /ws", s.monitor.HandleWS)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)

	return withMiddleware(mux, s.log)
}

// Start begins listening for HTTP connections. It blocks until the context
// is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.Routes(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		BaseContext: func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Bool("keyPresent", s.keyPresent).
		Msg("interview server ready")

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down interview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.monitor.CloseAll()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
