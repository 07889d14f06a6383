// ABOUTME: In-memory TodoStore backed by an ordered slice and an ID counter
// ABOUTME: Default store; state lives for the process lifetime only

package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore keeps todos in insertion order behind a single lock.
type MemoryStore struct {
	mu      sync.RWMutex
	todos   []*Todo
	counter int
	logger  *slog.Logger
}

// Ensure MemoryStore implements TodoStore.
var _ TodoStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store pre-seeded with the three sample rows.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		logger: slog.Default().With("component", "store"),
	}
	for _, t := range seedTodos(dateOnly(time.Now())) {
		s.todos = append(s.todos, t)
		s.counter = max(s.counter, t.ID)
	}
	return s
}

// ListTodosByUser returns copies of the todos owned by user.
func (s *MemoryStore) ListTodosByUser(_ context.Context, user string) ([]*Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var todos []*Todo
	for _, t := range s.todos {
		if t.OwnedBy(user) {
			c := *t
			todos = append(todos, &c)
		}
	}
	return todos, nil
}

// GetTodo returns a copy of the first todo with the given ID.
func (s *MemoryStore) GetTodo(_ context.Context, id int) (*Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		c := *s.todos[i]
		return &c, nil
	}
	return nil, ErrNotFound
}

// AddTodo appends a todo with ID ++counter.
func (s *MemoryStore) AddTodo(_ context.Context, user, desc string, targetDate time.Time, done bool) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	t := &Todo{
		ID:         s.counter,
		User:       user,
		Desc:       desc,
		TargetDate: dateOnly(targetDate),
		Done:       done,
	}
	s.todos = append(s.todos, t)

	s.logger.Debug("added todo", "id", t.ID, "user", user)
	c := *t
	return &c, nil
}

// UpdateTodo replaces the stored todo in place. Unknown IDs are appended and
// the counter is advanced past them so AddTodo never reuses an ID.
func (s *MemoryStore) UpdateTodo(_ context.Context, todo *Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *todo
	c.TargetDate = dateOnly(c.TargetDate)

	if i := s.indexOf(todo.ID); i >= 0 {
		s.todos[i] = &c
		s.logger.Debug("updated todo", "id", c.ID)
		return nil
	}

	s.todos = append(s.todos, &c)
	s.counter = max(s.counter, c.ID)
	s.logger.Debug("upserted missing todo", "id", c.ID)
	return nil
}

// DeleteTodo removes all todos with the given ID.
func (s *MemoryStore) DeleteTodo(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.todos[:0]
	for _, t := range s.todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	clear(s.todos[len(kept):])
	removed := len(s.todos) - len(kept)
	s.todos = kept

	if removed > 0 {
		s.logger.Debug("deleted todo", "id", id)
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// indexOf returns the position of the first todo with id, or -1.
// Caller must hold s.mu.
func (s *MemoryStore) indexOf(id int) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
