// ABOUTME: Todo request handling independent of HTTP
// ABOUTME: Maps (parameters, current user) to a View over an explicit TodoStore

package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/2389/todo-web/internal/store"
)

// View names rendered by the web layer.
const (
	ViewWelcome   = "welcome"
	ViewListTodos = "list-todos"
	ViewTodo      = "todo"
	ViewError     = "error"
)

// ListTodosPath is where successful mutations redirect.
const ListTodosPath = "/list-todos"

// DefaultDesc prefills the add form.
const DefaultDesc = "Default Desc"

// FaultInjectionID is the todo whose deletion always fails. It exists to
// exercise the error page.
const FaultInjectionID = 1

// ErrInjectedFault is returned when deleting FaultInjectionID.
var ErrInjectedFault = errors.New("Something went wrong")

// View is the outcome of a request: either a named template with its model,
// or a redirect target.
type View struct {
	Name     string
	Model    map[string]any
	Redirect string
}

// IsRedirect reports whether the view is a redirect.
func (v View) IsRedirect() bool {
	return v.Redirect != ""
}

func redirect(path string) View {
	return View{Redirect: path}
}

// Controller serves the todo pages for an authenticated user.
type Controller struct {
	store    store.TodoStore
	validate *formValidator
	now      func() time.Time
	logger   *slog.Logger
}

// NewController creates a controller over s.
func NewController(s store.TodoStore, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:    s,
		validate: newFormValidator(),
		now:      time.Now,
		logger:   logger.With("component", "todo"),
	}
}

// Welcome greets the user.
func (c *Controller) Welcome(user string) View {
	return View{Name: ViewWelcome, Model: map[string]any{"name": user}}
}

// ListTodos shows the user's todos.
func (c *Controller) ListTodos(ctx context.Context, user string) (View, error) {
	todos, err := c.store.ListTodosByUser(ctx, user)
	if err != nil {
		return View{}, fmt.Errorf("listing todos for %s: %w", user, err)
	}
	return View{Name: ViewListTodos, Model: map[string]any{"todos": todos}}, nil
}

// NewTodo shows a blank add form dated today.
func (c *Controller) NewTodo(user string) View {
	blank := &store.Todo{User: user, Desc: DefaultDesc, TargetDate: c.now()}
	return formView(FormFromTodo(blank), nil)
}

// AddTodo creates a todo from the submitted form. Invalid input redisplays
// the form and leaves the store untouched.
func (c *Controller) AddTodo(ctx context.Context, user string, f Form) (View, error) {
	if errs := c.validate.Validate(f); errs != nil {
		return formView(f, errs), nil
	}

	target, err := f.Date()
	if err != nil {
		return formView(f, FieldErrors{"targetDate": MsgInvalidDate}), nil
	}

	added, err := c.store.AddTodo(ctx, user, f.Desc, target, false)
	if err != nil {
		return View{}, fmt.Errorf("adding todo: %w", err)
	}
	c.logger.Info("todo added", "id", added.ID, "user", user)
	return redirect(ListTodosPath), nil
}

// EditTodo shows the form for an existing todo. An unknown id yields a blank
// form carrying that id.
func (c *Controller) EditTodo(ctx context.Context, user string, id int) (View, error) {
	t, err := c.store.GetTodo(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.logger.Debug("editing unknown todo", "id", id, "user", user)
		return formView(Form{ID: id}, nil), nil
	case err != nil:
		return View{}, fmt.Errorf("getting todo %d: %w", id, err)
	}
	return formView(FormFromTodo(t), nil), nil
}

// UpdateTodo saves the submitted form as the user's todo.
func (c *Controller) UpdateTodo(ctx context.Context, user string, f Form) (View, error) {
	if errs := c.validate.Validate(f); errs != nil {
		return formView(f, errs), nil
	}

	target, err := f.Date()
	if err != nil {
		return formView(f, FieldErrors{"targetDate": MsgInvalidDate}), nil
	}

	t := &store.Todo{
		ID:         f.ID,
		User:       user,
		Desc:       f.Desc,
		TargetDate: target,
		Done:       f.Done,
	}
	if err := c.store.UpdateTodo(ctx, t); err != nil {
		return View{}, fmt.Errorf("updating todo %d: %w", f.ID, err)
	}
	c.logger.Info("todo updated", "id", t.ID, "user", user)
	return redirect(ListTodosPath), nil
}

// DeleteTodo removes a todo. Deleting FaultInjectionID fails with
// ErrInjectedFault and removes nothing.
func (c *Controller) DeleteTodo(ctx context.Context, id int) (View, error) {
	if id == FaultInjectionID {
		return View{}, ErrInjectedFault
	}
	if err := c.store.DeleteTodo(ctx, id); err != nil {
		return View{}, fmt.Errorf("deleting todo %d: %w", id, err)
	}
	c.logger.Info("todo deleted", "id", id)
	return redirect(ListTodosPath), nil
}

func formView(f Form, errs FieldErrors) View {
	return View{Name: ViewTodo, Model: map[string]any{"todo": f, "errors": errs}}
}
