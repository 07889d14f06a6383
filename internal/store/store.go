// ABOUTME: Store interface and data types for todo-web
// ABOUTME: Defines the Todo entity, the TodoStore contract, and the seed rows

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested todo does not exist
var ErrNotFound = errors.New("not found")

// SeedUser owns the rows every store starts with.
const SeedUser = "in28Minutes"

// Todo is a single task owned by a user. Two todos are the same todo iff
// their IDs match; no other field takes part in identity.
type Todo struct {
	ID         int
	User       string
	Desc       string
	TargetDate time.Time
	Done       bool
}

// Equal reports whether t and other identify the same todo.
func (t *Todo) Equal(other *Todo) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.ID == other.ID
}

// OwnedBy reports whether the todo belongs to user, ignoring case.
func (t *Todo) OwnedBy(user string) bool {
	return strings.EqualFold(t.User, user)
}

func (t *Todo) String() string {
	return fmt.Sprintf("Todo [id=%d, user=%s, desc=%s, targetDate=%s, done=%t]",
		t.ID, t.User, t.Desc, t.TargetDate.Format(time.DateOnly), t.Done)
}

// TodoStore defines the interface for todo persistence.
//
// Not-found is never an error for mutations: UpdateTodo on an unknown ID
// appends, DeleteTodo on an unknown ID does nothing. GetTodo reports a
// missing row with ErrNotFound.
type TodoStore interface {
	// ListTodosByUser returns every todo whose owner matches user
	// case-insensitively, in store iteration order.
	ListTodosByUser(ctx context.Context, user string) ([]*Todo, error)

	// GetTodo returns the todo with the given ID.
	GetTodo(ctx context.Context, id int) (*Todo, error)

	// AddTodo assigns the next ID and appends a new todo.
	AddTodo(ctx context.Context, user, desc string, targetDate time.Time, done bool) (*Todo, error)

	// UpdateTodo replaces the todo with the same ID in place, or appends it
	// if no such todo exists.
	UpdateTodo(ctx context.Context, todo *Todo) error

	// DeleteTodo removes every todo with the given ID.
	DeleteTodo(ctx context.Context, id int) error

	// Close releases any resources held by the store
	Close() error
}

// seedTodos returns the rows present at process start.
func seedTodos(now time.Time) []*Todo {
	return []*Todo{
		{ID: 1, User: SeedUser, Desc: "Learn Spring MVC", TargetDate: now},
		{ID: 2, User: SeedUser, Desc: "Learn Struts", TargetDate: now},
		{ID: 3, User: SeedUser, Desc: "Learn Hibernate", TargetDate: now},
	}
}

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
