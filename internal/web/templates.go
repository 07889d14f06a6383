// ABOUTME: Template rendering for the todo pages
// ABOUTME: Parses every view from the embedded filesystem once and renders by view name

package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/2389/todo-web/internal/auth"
	"github.com/2389/todo-web/internal/todo"
)

// Login view name.
const viewLogin = "login"

// viewHelp renders the embedded help pages.
const viewHelp = "help"

var viewTitles = map[string]string{
	viewLogin:          "Login",
	viewHelp:           "Help",
	todo.ViewWelcome:   "Welcome",
	todo.ViewListTodos: "Todos",
	todo.ViewTodo:      "Todo",
	todo.ViewError:     "Error",
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(todo.DateLayout)
	},
}

// pageData is handed to every template.
type pageData struct {
	Title     string
	User      string
	CSRFToken string
	Model     map[string]any
}

// parseViews loads base.html combined with each view template.
func parseViews() (map[string]*template.Template, error) {
	views := make(map[string]*template.Template, len(viewTitles))
	for name := range viewTitles {
		tmpl, err := template.New("base.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		views[name] = tmpl
	}
	return views, nil
}

// render executes the named view into a buffer first so a template failure
// still produces a clean 500.
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, name string, model map[string]any) {
	tmpl, ok := a.views[name]
	if !ok {
		a.logger.Error("unknown view", "view", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:     viewTitles[name],
		User:      auth.CurrentUser(r.Context()),
		CSRFToken: auth.CSRFToken(r.Context()),
		Model:     model,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		a.logger.Error("failed to render view", "view", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderView writes a controller outcome: a redirect or a rendered page.
func (a *App) renderView(w http.ResponseWriter, r *http.Request, v todo.View) {
	if v.IsRedirect() {
		http.Redirect(w, r, v.Redirect, http.StatusSeeOther)
		return
	}
	a.render(w, r, http.StatusOK, v.Name, v.Model)
}

// renderError shows the error page with the given status.
func (a *App) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	a.render(w, r, status, todo.ViewError, map[string]any{
		"status":  status,
		"title":   http.StatusText(status),
		"message": message,
	})
}
