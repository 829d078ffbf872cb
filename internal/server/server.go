// ABOUTME: HTTP server wiring routes, middleware, and graceful shutdown
// ABOUTME: Exposes the search endpoint, the login flow, and a health check

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chatvault/chatvault/internal/auth"
	"github.com/chatvault/chatvault/internal/config"
	"github.com/chatvault/chatvault/internal/search"
)

// Server serves the chat-history search API.
type Server struct {
	cfg       *config.Config
	service   *search.Service
	validator *auth.Validator
	logger    *slog.Logger
}

// New creates a server from its collaborators. Configuration is immutable
// after this point; nothing reads ambient global state per request.
func New(cfg *config.Config, service *search.Service, validator *auth.Validator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		service:   service,
		validator: validator,
		logger:    logger.With("component", "server"),
	}
}

// Routes builds the HTTP handler with the token gate on the search endpoint.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	gate := auth.Middleware(s.validator, s.logger)
	mux.Handle("POST /query_chat_history", gate(http.HandlerFunc(s.handleQueryChatHistory)))

	mux.HandleFunc("GET /health", s.handleHealth)

	if s.cfg.LoginEnabled() {
		mux.HandleFunc("GET /login", s.handleLogin)
		mux.HandleFunc("GET /auth/callback", s.handleCallback)
	}

	return mux
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.HTTPAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
