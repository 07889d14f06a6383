// Package store provides todo persistence for todo-web.
//
// # Architecture
//
// TodoStore is the single storage interface. Two implementations exist:
//
//   - MemoryStore: mutex-guarded slice, the default. Contents are lost on restart.
//   - SQLiteStore: modernc.org/sqlite (pure Go, no cgo) for durable storage.
//
// Both start with the same three seed rows owned by SeedUser, and both keep
// insertion order so listings read the same from either backend.
//
// # Identity
//
// Two todos are the same todo when their IDs match (Todo.Equal). IDs come
// from a per-store counter that starts after the seed rows and only grows.
//
// # Not Found
//
// Mutations never fail on a missing ID:
//
//   - UpdateTodo appends the todo instead
//   - DeleteTodo does nothing
//
// GetTodo reports a missing row with ErrNotFound.
//
// # SQLite Configuration
//
// File databases run in WAL mode. ":memory:" is accepted for tests and for
// throwaway runs. Owner matching uses COLLATE NOCASE, which folds ASCII only.
//
// All methods accept context.Context for cancellation support.
package store
