// ABOUTME: SQLite implementation of the TodoStore interface using modernc.org/sqlite
// ABOUTME: Defaults to an in-memory database; a file path keeps rows across restarts

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

const dateLayout = time.DateOnly

// SQLiteStore implements TodoStore on SQLite. Iteration order is kept in an
// explicit position column so in-place updates do not reorder rows.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteStore implements TodoStore.
var _ TodoStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is created and seeded if the database is new.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != MemoryDSN {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := path
	if path != MemoryDSN {
		dsn += "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == MemoryDSN {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.seed(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding todos: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS todos (
			id          INTEGER PRIMARY KEY,
			owner       TEXT NOT NULL,
			description TEXT NOT NULL,
			target_date TEXT NOT NULL,
			done        INTEGER NOT NULL DEFAULT 0,
			position    INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_todos_owner ON todos(owner COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS idx_todos_position ON todos(position);

		CREATE TABLE IF NOT EXISTS counters (
			name  TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// seed inserts the sample rows the first time the database is opened.
func (s *SQLiteStore) seed(ctx context.Context) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM counters WHERE name = 'todo'`).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking counter: %w", err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		seedRows := seedTodos(dateOnly(time.Now()))
		for i, t := range seedRows {
			if err := insertTodo(ctx, tx, t, i+1); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO counters (name, value) VALUES ('todo', ?)`, len(seedRows))
		if err != nil {
			return fmt.Errorf("initializing counter: %w", err)
		}
		s.logger.Info("seeded todos", "count", len(seedRows))
		return nil
	})
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// ListTodosByUser returns the todos owned by user in position order.
func (s *SQLiteStore) ListTodosByUser(ctx context.Context, user string) ([]*Todo, error) {
	query := `
		SELECT id, owner, description, target_date, done
		FROM todos
		WHERE owner = ? COLLATE NOCASE
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var todos []*Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w", err)
	}

	return todos, nil
}

// GetTodo retrieves a todo by ID.
// Returns ErrNotFound if the todo doesn't exist.
func (s *SQLiteStore) GetTodo(ctx context.Context, id int) (*Todo, error) {
	query := `
		SELECT id, owner, description, target_date, done
		FROM todos
		WHERE id = ?
	`

	t, err := scanTodo(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// AddTodo bumps the counter and appends a todo with the new value as ID.
func (s *SQLiteStore) AddTodo(ctx context.Context, user, desc string, targetDate time.Time, done bool) (*Todo, error) {
	t := &Todo{
		User:       user,
		Desc:       desc,
		TargetDate: dateOnly(targetDate),
		Done:       done,
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`UPDATE counters SET value = value + 1 WHERE name = 'todo' RETURNING value`,
		).Scan(&t.ID); err != nil {
			return fmt.Errorf("incrementing counter: %w", err)
		}

		pos, err := nextPosition(ctx, tx)
		if err != nil {
			return err
		}
		return insertTodo(ctx, tx, t, pos)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("added todo", "id", t.ID, "user", user)
	return t, nil
}

// UpdateTodo overwrites the row in place, or appends it when missing.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, todo *Todo) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE todos
			SET owner = ?, description = ?, target_date = ?, done = ?
			WHERE id = ?
		`,
			todo.User,
			todo.Desc,
			dateOnly(todo.TargetDate).Format(dateLayout),
			todo.Done,
			todo.ID,
		)
		if err != nil {
			return fmt.Errorf("updating todo: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("getting rows affected: %w", err)
		}
		if rowsAffected > 0 {
			s.logger.Debug("updated todo", "id", todo.ID)
			return nil
		}

		pos, err := nextPosition(ctx, tx)
		if err != nil {
			return err
		}
		if err := insertTodo(ctx, tx, todo, pos); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE counters SET value = max(value, ?) WHERE name = 'todo'`, todo.ID,
		); err != nil {
			return fmt.Errorf("advancing counter: %w", err)
		}
		s.logger.Debug("upserted missing todo", "id", todo.ID)
		return nil
	})
}

// DeleteTodo removes the todo with the given ID, if any.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		s.logger.Debug("deleted todo", "id", id)
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func nextPosition(ctx context.Context, tx *sql.Tx) (int, error) {
	var pos int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM todos`).Scan(&pos); err != nil {
		return 0, fmt.Errorf("computing position: %w", err)
	}
	return pos, nil
}

func insertTodo(ctx context.Context, tx *sql.Tx, t *Todo, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO todos (id, owner, description, target_date, done, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		t.ID,
		t.User,
		t.Desc,
		dateOnly(t.TargetDate).Format(dateLayout),
		t.Done,
		position,
	)
	if err != nil {
		return fmt.Errorf("inserting todo: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*Todo, error) {
	var t Todo
	var targetDateStr string

	if err := row.Scan(&t.ID, &t.User, &t.Desc, &targetDateStr, &t.Done); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning todo: %w", err)
	}

	var err error
	t.TargetDate, err = time.Parse(dateLayout, targetDateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing target_date: %w", err)
	}

	return &t, nil
}
