// Package db provides structured access and database migrations for the SQLite persistence layer.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:   db,
		path: dbPath,
	}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	migrations := []string{
		// Saved filter views
		`CREATE TABLE IF NOT EXISTS saved_views (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			page TEXT NOT NULL,
			status TEXT,
			search_term TEXT,
			time_from TEXT,
			time_to TEXT,
			view_mode TEXT,
			metric TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Query audit log
		`CREATE TABLE IF NOT EXISTS query_audit (
			id TEXT PRIMARY KEY,
			query_text TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			row_count INTEGER NOT NULL,
			error TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_saved_views_page ON saved_views(page)`,
		`CREATE INDEX IF NOT EXISTS idx_query_audit_created ON query_audit(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
