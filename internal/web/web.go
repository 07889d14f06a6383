// ABOUTME: HTTP adapter for the todo application
// ABOUTME: Provides form login, logout, the todo routes, and the access gate in front of them

package web

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/2389/todo-web/internal/auth"
	"github.com/2389/todo-web/internal/store"
	"github.com/2389/todo-web/internal/todo"
)

// Login page messages.
const (
	MsgBadCredentials = "Bad credentials"
	MsgLoggedOut      = "You have been logged out."
)

// Config holds web layer configuration
type Config struct {
	// Rules replaces the default access policy when set.
	Rules  auth.Rules
	Logger *slog.Logger
}

// App serves the todo web UI.
type App struct {
	todos    *todo.Controller
	users    *auth.Users
	sessions *auth.Sessions
	gate     *auth.Gate
	views    map[string]*template.Template
	logger   *slog.Logger
}

// New creates the web application over the given store and credentials.
func New(todos store.TodoStore, users *auth.Users, sessions *auth.Sessions, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	views, err := parseViews()
	if err != nil {
		return nil, err
	}

	a := &App{
		todos:    todo.NewController(todos, logger),
		users:    users,
		sessions: sessions,
		views:    views,
		logger:   logger.With("component", "web"),
	}
	a.gate = auth.NewGate(auth.GateConfig{
		Rules:    cfg.Rules,
		Sessions: sessions,
		Denied:   http.HandlerFunc(a.handleDenied),
		Logger:   logger.With("component", "gate"),
	})
	return a, nil
}

// RegisterRoutes registers all page routes on the given mux
func (a *App) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /login", a.handleLoginPage)
	mux.HandleFunc("POST /login", a.handleLogin)
	mux.HandleFunc("POST /logout", a.handleLogout)

	mux.HandleFunc("GET /{$}", a.handleWelcome)
	mux.HandleFunc("GET /help", a.handleHelp)

	mux.HandleFunc("GET /list-todos", a.handleListTodos)
	mux.HandleFunc("GET /add-todo", a.handleNewTodo)
	mux.HandleFunc("POST /add-todo", a.handleAddTodo)
	mux.HandleFunc("GET /update-todo", a.handleEditTodo)
	mux.HandleFunc("POST /update-todo", a.handleUpdateTodo)
	mux.HandleFunc("GET /delete-todo", a.handleDeleteTodo)

	a.logger.Info("web routes registered")
}

// Protect wraps next with the session, CSRF and access-rule checks.
func (a *App) Protect(next http.Handler) http.Handler {
	return a.gate.Middleware(next)
}

// handleLoginPage renders the login page
func (a *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// Already logged in
	if auth.FromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	model := map[string]any{}
	q := r.URL.Query()
	if q.Has("error") {
		model["error"] = MsgBadCredentials
	}
	if q.Has("logout") {
		model["notice"] = MsgLoggedOut
	}
	a.render(w, r, http.StatusOK, viewLogin, model)
}

// handleLogin processes login form submission
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	principal, err := a.users.Authenticate(username, password)
	if err != nil {
		a.logger.Info("login failed", "username", username)
		a.render(w, r, http.StatusOK, viewLogin, map[string]any{
			"error":    MsgBadCredentials,
			"username": username,
		})
		return
	}

	if err := a.sessions.Start(w, r, principal); err != nil {
		a.logger.Error("failed to create session", "error", err)
		a.renderError(w, r, http.StatusInternalServerError, "An error occurred")
		return
	}

	a.logger.Info("login successful", "username", principal.Username())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout ends the session
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.sessions.End(w, r)
	a.logger.Info("logout", "username", auth.CurrentUser(r.Context()))
	http.Redirect(w, r, auth.LoginPath+"?logout", http.StatusSeeOther)
}

// handleDenied renders the 403 page
func (a *App) handleDenied(w http.ResponseWriter, r *http.Request) {
	a.renderError(w, r, http.StatusForbidden, "Access Denied")
}

func (a *App) handleWelcome(w http.ResponseWriter, r *http.Request) {
	a.renderView(w, r, a.todos.Welcome(auth.CurrentUser(r.Context())))
}

func (a *App) handleListTodos(w http.ResponseWriter, r *http.Request) {
	v, err := a.todos.ListTodos(r.Context(), auth.CurrentUser(r.Context()))
	a.respond(w, r, v, err)
}

func (a *App) handleNewTodo(w http.ResponseWriter, r *http.Request) {
	a.renderView(w, r, a.todos.NewTodo(auth.CurrentUser(r.Context())))
}

func (a *App) handleAddTodo(w http.ResponseWriter, r *http.Request) {
	form, ok := a.bindForm(w, r)
	if !ok {
		return
	}
	v, err := a.todos.AddTodo(r.Context(), auth.CurrentUser(r.Context()), form)
	a.respond(w, r, v, err)
}

func (a *App) handleEditTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := a.bindID(w, r)
	if !ok {
		return
	}
	v, err := a.todos.EditTodo(r.Context(), auth.CurrentUser(r.Context()), id)
	a.respond(w, r, v, err)
}

func (a *App) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	form, ok := a.bindForm(w, r)
	if !ok {
		return
	}
	v, err := a.todos.UpdateTodo(r.Context(), auth.CurrentUser(r.Context()), form)
	a.respond(w, r, v, err)
}

func (a *App) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := a.bindID(w, r)
	if !ok {
		return
	}
	v, err := a.todos.DeleteTodo(r.Context(), id)
	a.respond(w, r, v, err)
}

// bindID reads the required id query parameter.
func (a *App) bindID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("id")
	id, err := todo.ParseID(raw)
	if err != nil || raw == "" {
		a.renderError(w, r, http.StatusBadRequest, "A numeric id is required")
		return 0, false
	}
	return id, true
}

// bindForm parses the posted todo form.
func (a *App) bindForm(w http.ResponseWriter, r *http.Request) (todo.Form, bool) {
	if err := r.ParseForm(); err != nil {
		a.renderError(w, r, http.StatusBadRequest, "Invalid form data")
		return todo.Form{}, false
	}
	form, err := todo.ParseForm(r.Form)
	if err != nil {
		a.renderError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid form data: %v", err))
		return todo.Form{}, false
	}
	return form, true
}

// respond renders a controller result, mapping failures to the error page.
func (a *App) respond(w http.ResponseWriter, r *http.Request, v todo.View, err error) {
	switch {
	case err == nil:
		a.renderView(w, r, v)
	case errors.Is(err, todo.ErrInjectedFault):
		a.logger.Error("request failed", "path", r.URL.Path, "error", err)
		a.renderError(w, r, http.StatusInternalServerError, err.Error())
	default:
		a.logger.Error("request failed", "path", r.URL.Path, "error", err)
		a.renderError(w, r, http.StatusInternalServerError, "An error occurred")
	}
}
