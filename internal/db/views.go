package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrViewNotFound is returned when a saved view id does not exist.
var ErrViewNotFound = errors.New("saved view not found")

// SavedView is a named filter preset for the orders or geo page.
type SavedView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Page       string    `json:"page"`
	Status     string    `json:"status,omitempty"`
	SearchTerm string    `json:"searchTerm,omitempty"`
	TimeFrom   string    `json:"timeFrom,omitempty"`
	TimeTo     string    `json:"timeTo,omitempty"`
	ViewMode   string    `json:"viewMode,omitempty"`
	Metric     string    `json:"metric,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SaveView stores a filter preset and returns it with its generated id.
func (db *DB) SaveView(v SavedView) (SavedView, error) {
	v.ID = uuid.NewString()
	v.CreatedAt = time.Now().UTC()

	_, err := db.Exec(`INSERT INTO saved_views
		(id, name, page, status, search_term, time_from, time_to, view_mode, metric, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Page, v.Status, v.SearchTerm, v.TimeFrom, v.TimeTo, v.ViewMode, v.Metric, v.CreatedAt)
	if err != nil {
		return SavedView{}, fmt.Errorf("failed to save view: %w", err)
	}
	return v, nil
}

// ListViews returns all saved views, newest first.
func (db *DB) ListViews() ([]SavedView, error) {
	rows, err := db.Query(`SELECT id, name, page, status, search_term, time_from, time_to, view_mode, metric, created_at
		FROM saved_views ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	var views []SavedView
	for rows.Next() {
		var v SavedView
		if err := rows.Scan(&v.ID, &v.Name, &v.Page, &v.Status, &v.SearchTerm,
			&v.TimeFrom, &v.TimeTo, &v.ViewMode, &v.Metric, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan view row: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing views: %w", err)
	}
	return views, nil
}

// DeleteView removes a saved view by id.
func (db *DB) DeleteView(id string) error {
	res, err := db.Exec(`DELETE FROM saved_views WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return ErrViewNotFound
	}
	return nil
}

// RecordQuery appends one executed query to the audit log. A nil DB receiver
// is valid and turns auditing off.
func (db *DB) RecordQuery(queryText string, duration time.Duration, rowCount int, queryErr error) error {
	if db == nil {
		return nil
	}

	errText := sql.NullString{}
	if queryErr != nil {
		errText = sql.NullString{String: queryErr.Error(), Valid: true}
	}

	_, err := db.Exec(`INSERT INTO query_audit (id, query_text, duration_ms, row_count, error)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), queryText, duration.Milliseconds(), rowCount, errText)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}
