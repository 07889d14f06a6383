// ABOUTME: Server orchestrator that wires the store, auth, and web UI behind one HTTP server
// ABOUTME: Manages listener setup, health endpoint, and graceful shutdown

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/2389/todo-web/internal/auth"
	"github.com/2389/todo-web/internal/config"
	"github.com/2389/todo-web/internal/store"
	"github.com/2389/todo-web/internal/web"
)

// Server runs the todo web application.
type Server struct {
	config     *config.Config
	store      store.TodoStore
	sessions   *auth.Sessions
	httpServer *http.Server
	logger     *slog.Logger
}

// initStore creates the todo store selected by config.
// TODO_WEB_DB_PATH overrides database.path for the sqlite driver.
func initStore(cfg config.DatabaseConfig) (store.TodoStore, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return store.NewMemoryStore(), nil
	case config.DriverSQLite:
		dbPath := cfg.Path
		if envPath := os.Getenv("TODO_WEB_DB_PATH"); envPath != "" {
			dbPath = envPath
		}
		s, err := store.NewSQLiteStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("initializing store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// New creates a server from the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	todos, err := initStore(cfg.Database)
	if err != nil {
		return nil, err
	}

	sessions, err := auth.NewSessions([]byte(cfg.Auth.SessionSecret), cfg.Auth.SessionDuration)
	if err != nil {
		_ = todos.Close()
		return nil, fmt.Errorf("creating session manager: %w", err)
	}
	if cfg.Auth.SessionSecret == "" {
		logger.Warn("auth.session_secret not set - sessions will not survive a restart")
	}

	users, err := auth.DefaultUsers()
	if err != nil {
		sessions.Close()
		_ = todos.Close()
		return nil, fmt.Errorf("creating users: %w", err)
	}

	app, err := web.New(todos, users, sessions, web.Config{Logger: logger})
	if err != nil {
		sessions.Close()
		_ = todos.Close()
		return nil, fmt.Errorf("creating web app: %w", err)
	}

	s := &Server{
		config:   cfg,
		store:    todos,
		sessions: sessions,
		logger:   logger.With("component", "server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	app.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           app.Protect(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Run listens on the configured address and serves until ctx is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		_ = s.Shutdown(context.Background())
		return fmt.Errorf("listening on HTTP address: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := s.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() since the run context is already canceled.
func (s *Server) gracefulShutdown() error {
	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown stops the HTTP server and releases the store and sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", s.httpServer.Shutdown(ctx))
	errs = appendCloseError(errs, "store close", s.store.Close())
	s.sessions.Close()

	return errors.Join(errs...)
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
