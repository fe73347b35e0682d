// Package library stores englang scripts and a journal of their runs in
// a SQLite database.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/antibyte/englang/pkg/englang"
	"github.com/antibyte/englang/pkg/logger"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrScriptNotFound is returned when no script has the requested name.
var ErrScriptNotFound = errors.New("script not found")

// Run status values stored in the journal.
const (
	StatusRunning  = "running"
	StatusFinished = "finished"
	StatusStopped  = "stopped"
	StatusFailed   = "failed"
)

// Script is a named program kept in the library.
type Script struct {
	Name      string
	Source    string
	UpdatedAt time.Time
}

// Run is one journal entry.
type Run struct {
	ID         string
	Script     string
	Origin     string
	Status     string
	Message    string
	Steps      int64
	StartedAt  time.Time
	FinishedAt time.Time
}

// Library wraps the SQLite connection.
type Library struct {
	conn *sql.DB
}

// Open opens (or creates) the database at dbPath and makes sure all tables
// exist.
func Open(dbPath string) (*Library, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	logger.DatabaseInfo("library opened at %s", dbPath)
	return &Library{conn: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS scripts (
			name TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			script TEXT NOT NULL,
			origin TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			steps INTEGER NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL,
			finished_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (l *Library) Close() error {
	return l.conn.Close()
}

// SaveScript inserts or replaces a script.
func (l *Library) SaveScript(ctx context.Context, name, source string) error {
	if name == "" {
		return fmt.Errorf("script name must not be empty")
	}
	_, err := l.conn.ExecContext(ctx, `
		INSERT INTO scripts (name, source, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET source = excluded.source, updated_at = excluded.updated_at
	`, name, source, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("error saving script %q: %w", name, err)
	}
	logger.DatabaseDebug("saved script %s (%d bytes)", name, len(source))
	return nil
}

// LoadScript returns the script called name.
func (l *Library) LoadScript(ctx context.Context, name string) (Script, error) {
	var (
		s       Script
		updated int64
	)
	err := l.conn.QueryRowContext(ctx,
		`SELECT name, source, updated_at FROM scripts WHERE name = ?`, name,
	).Scan(&s.Name, &s.Source, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Script{}, fmt.Errorf("%w: %s", ErrScriptNotFound, name)
	}
	if err != nil {
		return Script{}, fmt.Errorf("error loading script %q: %w", name, err)
	}
	s.UpdatedAt = time.Unix(0, updated)
	return s, nil
}

// Program loads a script and parses it into a program.
func (l *Library) Program(ctx context.Context, name string) (*englang.Program, error) {
	s, err := l.LoadScript(ctx, name)
	if err != nil {
		return nil, err
	}
	return englang.ParseProgram(s.Name, s.Source), nil
}

// DeleteScript removes a script. Deleting a missing script is an error.
func (l *Library) DeleteScript(ctx context.Context, name string) error {
	res, err := l.conn.ExecContext(ctx, `DELETE FROM scripts WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("error deleting script %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, name)
	}
	return nil
}

// ListScripts returns all scripts ordered by name. Sources are included.
func (l *Library) ListScripts(ctx context.Context) ([]Script, error) {
	rows, err := l.conn.QueryContext(ctx, `SELECT name, source, updated_at FROM scripts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing scripts: %w", err)
	}
	defer rows.Close()

	var scripts []Script
	for rows.Next() {
		var (
			s       Script
			updated int64
		)
		if err := rows.Scan(&s.Name, &s.Source, &updated); err != nil {
			return nil, err
		}
		s.UpdatedAt = time.Unix(0, updated)
		scripts = append(scripts, s)
	}
	return scripts, rows.Err()
}

// StartRun records the start of a run and returns its id.
func (l *Library) StartRun(ctx context.Context, script, origin string) (string, error) {
	id := uuid.New().String()
	_, err := l.conn.ExecContext(ctx, `
		INSERT INTO runs (id, script, origin, status, started_at) VALUES (?, ?, ?, ?, ?)
	`, id, script, origin, StatusRunning, time.Now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("error starting run: %w", err)
	}
	return id, nil
}

// FinishRun stores the outcome of a run. runErr nil with stopped set means
// the script ended through stop or exit.
func (l *Library) FinishRun(ctx context.Context, id string, steps int64, stopped bool, runErr error) error {
	status, message := RunStatus(stopped, runErr)
	res, err := l.conn.ExecContext(ctx, `
		UPDATE runs SET status = ?, message = ?, steps = ?, finished_at = ? WHERE id = ?
	`, status, message, steps, time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("error finishing run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unknown run %s", id)
	}
	logger.DatabaseDebug("run %s finished: %s", id, status)
	return nil
}

// RunStatus maps the result of a run to a journal status and message.
func RunStatus(stopped bool, runErr error) (string, string) {
	switch {
	case runErr != nil:
		return StatusFailed, runErr.Error()
	case stopped:
		return StatusStopped, ""
	default:
		return StatusFinished, ""
	}
}

// Runs returns the most recent journal entries, newest first. limit <= 0
// returns all of them.
func (l *Library) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, script, origin, status, message, steps, started_at, finished_at
		FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			started  int64
			finished sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Script, &r.Origin, &r.Status, &r.Message, &r.Steps, &started, &finished); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(0, started)
		if finished.Valid {
			r.FinishedAt = time.Unix(0, finished.Int64)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
