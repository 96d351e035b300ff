// Package server implements the crochet HTTP API.
//
// Editing endpoints keep the names the web client has always used
// (/add_stitch, /new_row, /undo, ...) and act on the caller's editing
// session, chosen by the X-Pattern-Session header. Requests without the
// header share the default session. Saved patterns live under /patterns;
// anyone may read them, but creating or changing one needs a bearer token
// from /auth/login belonging to the pattern's owner.
//
// Errors are returned as {"code": ..., "message": ...} with a status derived
// from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/deiva0304/BUDS-Crochet/pkg/auth"
	"github.com/deiva0304/BUDS-Crochet/pkg/render"
	"github.com/deiva0304/BUDS-Crochet/pkg/session"
	"github.com/deiva0304/BUDS-Crochet/pkg/store"
)

// SessionHeader names the request header that selects an editing session.
const SessionHeader = "X-Pattern-Session"

// Config holds the server's collaborators.
type Config struct {
	Sessions *session.Manager
	Store    store.Store
	// Auth issues the tokens required to change saved patterns. Nil keeps
	// accounts in memory.
	Auth *auth.Service
	// Chart renders previews for /render_pattern. It must be the renderer
	// the session patterns were built with.
	Chart  *render.Chart
	Logger *log.Logger

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the API.
type Server struct {
	sessions *session.Manager
	store    store.Store
	auth     *auth.Service
	chart    *render.Chart
	logger   *log.Logger
	cfg      Config
}

// New creates a server.
func New(cfg Config) *Server {
	s := &Server{
		sessions: cfg.Sessions,
		store:    cfg.Store,
		auth:     cfg.Auth,
		chart:    cfg.Chart,
		logger:   cfg.Logger,
		cfg:      cfg,
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.auth == nil {
		s.auth = auth.New(auth.Options{})
	}
	if s.chart == nil {
		s.chart = render.NewChart(render.Options{})
	}
	return s
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	// Editing session
	r.Post("/add_stitch", s.handleAddStitch)
	r.Post("/new_row", s.handleNewRow)
	r.Post("/undo", s.handleUndo)
	r.Post("/redo", s.handleRedo)
	r.Post("/clear_pattern", s.handleClear)
	r.Get("/get_counts", s.handleCounts)
	r.Get("/get_max_length", s.handleMaxLength)
	r.Get("/stitch_options", s.handleStitchOptions)
	r.Get("/render_pattern", s.handleRenderPattern)
	r.Get("/preview/{format}", s.handlePreview)
	r.Get("/generate_written_pattern", s.handleWrittenPattern)
	r.Get("/history", s.handleHistory)

	r.Post("/sessions", s.handleCreateSession)
	r.Delete("/sessions/{id}", s.handleDeleteSession)

	// Accounts
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	// Saved patterns are public to read; changes need the owner's token.
	r.Get("/patterns/{id}", s.handleGetPattern)
	r.Get("/users/{owner}/patterns", s.handleListPatterns)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/me", s.handleMe)

		r.Post("/patterns", s.handleCreatePattern)
		r.Delete("/patterns/{id}", s.handleDeletePattern)
		r.Put("/update_pattern", s.handleUpdatePattern)
		r.Post("/patterns/{id}/visualization", s.handleSaveSession)
		r.Put("/patterns/{id}/row_counter", s.handleRowCounter)
		r.Post("/patterns/{id}/rows", s.handleAddRow)
		r.Delete("/patterns/{id}/rows/last", s.handleRemoveRow)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}
