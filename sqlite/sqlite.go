// Package sqlite provides SQLite-based storage for classload run history.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Workload rows rely on ON DELETE CASCADE.
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			term TEXT NOT NULL,
			subject TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			output_path TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			pages INTEGER NOT NULL DEFAULT 0,
			rows_scraped INTEGER NOT NULL DEFAULT 0,
			rows_parsed INTEGER NOT NULL DEFAULT 0,
			rows_skipped INTEGER NOT NULL DEFAULT 0,
			duplicates INTEGER NOT NULL DEFAULT 0,
			unclassified INTEGER NOT NULL DEFAULT 0,
			students INTEGER NOT NULL DEFAULT 0,
			skips TEXT NOT NULL DEFAULT '[]',
			content_hash TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS workloads (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			last_name TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			ug_classes INTEGER NOT NULL DEFAULT 0,
			ug_students INTEGER NOT NULL DEFAULT 0,
			ug_supervision_classes INTEGER NOT NULL DEFAULT 0,
			ug_supervision_students INTEGER NOT NULL DEFAULT 0,
			grad_classes INTEGER NOT NULL DEFAULT 0,
			grad_students INTEGER NOT NULL DEFAULT 0,
			grad_supervision_classes INTEGER NOT NULL DEFAULT 0,
			grad_supervision_students INTEGER NOT NULL DEFAULT 0,
			unclassified_classes INTEGER NOT NULL DEFAULT 0,
			unclassified_students INTEGER NOT NULL DEFAULT 0,
			unclassified_courses TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_runs_subject_term ON runs(subject, term);
	`

	_, err := db.db.Exec(schema)
	return err
}
