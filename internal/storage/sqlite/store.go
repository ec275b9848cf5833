package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tasklist/internal/models"
	"tasklist/internal/storage"
)

// Store keeps tasks in a private in-memory SQLite database.
// The database disappears when the store is closed.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a fresh in-memory database and runs the migrations.
func Open(logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Each store gets its own named database so parallel stores never share rows.
	dsn := fmt.Sprintf("file:tasklist-%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// The in-memory database lives only as long as its last connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Debug("sqlite task store ready")
	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            id TEXT NOT NULL UNIQUE,
            title TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT '',
            due_date TEXT NOT NULL DEFAULT '',
            done BOOLEAN NOT NULL DEFAULT 0
        );`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_done ON tasks(done);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Insert appends a task after every existing one.
func (s *Store) Insert(ctx context.Context, t models.Task) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks(id, title, description, status, due_date, done) VALUES(?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Status, t.DueDate, t.Done)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("duplicate task id %q", t.ID)
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Get retrieves a task by id.
func (s *Store) Get(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	err := s.db.QueryRowContext(ctx, `SELECT id, title, description, status, due_date, done FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.Done)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Update overwrites every field of the stored task without moving it.
func (s *Store) Update(ctx context.Context, t models.Task) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, status = ?, due_date = ?, done = ? WHERE id = ?`,
		t.Title, t.Description, t.Status, t.DueDate, t.Done, t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a task by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// List returns tasks in insertion order.
func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, status, due_date, done FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.Done); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
