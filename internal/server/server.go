// Package server exposes the tracker over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/balkashynov/tempo/internal/db"
	"github.com/balkashynov/tempo/internal/models"
)

// Tracker is the core the API serves. *db.Store implements it.
type Tracker interface {
	CreateProject(ctx context.Context, req db.ProjectRequest) (*models.ProjectSummary, error)
	ListProjects(ctx context.Context) ([]models.ProjectSummary, error)
	GetProject(ctx context.Context, id uint) (*models.ProjectSummary, error)
	UpdateProject(ctx context.Context, id uint, req db.ProjectRequest) (*models.ProjectSummary, error)
	DeleteProject(ctx context.Context, id uint) error

	StartSession(ctx context.Context, projectID uint) (*models.Session, error)
	EndSession(ctx context.Context, sessionID uint) (*models.Session, error)
	ListSessions(ctx context.Context, projectID uint) ([]models.Session, error)
	GetActiveSessionForProject(ctx context.Context, projectID uint) (*models.ActiveSession, error)
	GetActiveSession(ctx context.Context) (*models.ActiveSession, error)

	AverageDuration(ctx context.Context) (*models.AverageDuration, error)
	GlobalStatistics(ctx context.Context) (*models.Statistics, error)
	ProjectStatistics(ctx context.Context, projectID uint) (*models.ProjectStatistics, error)

	Ping(ctx context.Context) error
}

// Options configures the listener.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ShutdownTimeout bounds the graceful drain after ctx is cancelled.
	ShutdownTimeout time.Duration
}

// Server is the HTTP front of the tracker.
type Server struct {
	tracker Tracker
	log     *slog.Logger
	handler http.Handler
}

// New builds a Server with its routes and middleware.
func New(tracker Tracker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{tracker: tracker, log: log}

	mux := http.NewServeMux()
	s.routes(mux)

	s.handler = Chain(mux,
		RequestID(),
		Trace(),
		LogRequests(log),
		RecoverPanic(log),
	)
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /projects", s.handleCreateProject)
	mux.HandleFunc("GET /projects", s.handleListProjects)
	mux.HandleFunc("GET /projects/{id}", s.handleGetProject)
	mux.HandleFunc("PUT /projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /projects/{id}", s.handleDeleteProject)

	mux.HandleFunc("POST /sessions/start", s.handleStartSession)
	mux.HandleFunc("POST /sessions/end", s.handleEndSession)
	mux.HandleFunc("GET /sessions/project/{id}", s.handleListSessions)
	mux.HandleFunc("GET /sessions/active/{projectId}", s.handleActiveForProject)
	mux.HandleFunc("GET /sessions/active", s.handleActive)

	mux.HandleFunc("GET /sessions/average-duration", s.handleAverageDuration)
	mux.HandleFunc("GET /sessions/statistics", s.handleGlobalStatistics)
	mux.HandleFunc("GET /sessions/statistics/project/{id}", s.handleProjectStatistics)

	mux.HandleFunc("/", s.handleNotFound)
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, opts Options) error {
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("server: binding listener: %w", err)
	}
	return s.Serve(ctx, ln, opts)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, opts Options) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Ping(r.Context()); err != nil {
		s.log.ErrorContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, Envelope{Message: "database unavailable"})
		return
	}
	s.writeOK(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, Envelope{Message: fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path)})
}
