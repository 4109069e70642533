// Package api exposes the digest worker's operational HTTP surface:
// health, a manual run trigger, and the last run report. The recipe
// application's own API is a separate system and is not served here.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/savora/recipedigest/internal/config"
	"github.com/savora/recipedigest/internal/domain"
	"github.com/savora/recipedigest/internal/pkg/logger"
)

// DigestControl is the slice of the scheduler the ops endpoint drives.
type DigestControl interface {
	RunOnce(ctx context.Context)
	LastReport() *domain.DigestRunReport
}

// Server is the worker's ops HTTP server.
type Server struct {
	cfg     config.ServerConfig
	control DigestControl
	httpSrv *http.Server
}

// NewServer creates the ops server around the given digest control.
func NewServer(cfg config.ServerConfig, control DigestControl) *Server {
	s := &Server{cfg: cfg, control: control}
	s.httpSrv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/digest", func(r chi.Router) {
		r.Post("/run", s.handleTriggerRun)
		r.Get("/last-run", s.handleLastRun)
	})

	return r
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ops server stopped unexpectedly", "error", err.Error())
		}
	}()
	return nil
}

// Shutdown gracefully stops the ops server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTriggerRun starts a digest pass outside the daily schedule.
// Re-triggering sends fresh digests; there is no already-sent-today
// guard, so this is an operator tool, not a user-facing endpoint.
func (s *Server) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	go s.control.RunOnce(context.Background())
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "triggered"})
}

func (s *Server) handleLastRun(w http.ResponseWriter, r *http.Request) {
	report := s.control.LastReport()
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no digest run recorded yet"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
