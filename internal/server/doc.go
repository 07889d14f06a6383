// Package server orchestrates the todo-web server components.
//
// # Overview
//
// The server package owns the todo store, the session manager, and the web
// application, and runs them behind a single HTTP server:
//
//	type Server struct {
//	    config     *config.Config
//	    store      store.TodoStore
//	    sessions   *auth.Sessions
//	    httpServer *http.Server
//	}
//
// # Routes
//
// Every request passes through the access gate before reaching the mux:
//
//	GET  /health         Liveness check, open to everyone
//	GET  /login          Login form
//	POST /login          Credential check, starts a session
//	POST /logout         Ends the session
//	GET  /               Welcome page
//	GET  /list-todos     Todos of the current user
//	GET  /add-todo       Blank todo form
//	POST /add-todo       Create a todo
//	GET  /update-todo    Edit form for ?id=N
//	POST /update-todo    Save a todo
//	GET  /delete-todo    Delete ?id=N
//	GET  /help           Help pages
//
// # Store Selection
//
// database.driver picks the store: "memory" (default) or "sqlite". The
// TODO_WEB_DB_PATH environment variable overrides database.path.
//
// # Lifecycle
//
//	srv, err := server.New(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx) // blocks until ctx is canceled
//
// On cancellation the HTTP server drains within server.shutdown_timeout,
// then the store and session manager are closed.
package server
