package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListViews(t *testing.T) {
	store := newTestDB(t)

	saved, err := store.SaveView(SavedView{
		Name:     "failures last day",
		Page:     "orders",
		Status:   "failure",
		TimeFrom: "now-24h",
		TimeTo:   "now",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	views, err := store.ListViews()
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, saved.ID, views[0].ID)
	assert.Equal(t, "failures last day", views[0].Name)
	assert.Equal(t, "failure", views[0].Status)
}

func TestDeleteViewMissing(t *testing.T) {
	store := newTestDB(t)

	err := store.DeleteView("no-such-id")
	assert.True(t, errors.Is(err, ErrViewNotFound))
}

func TestRecordQuery(t *testing.T) {
	store := newTestDB(t)

	require.NoError(t, store.RecordQuery("fetch bizevents", 120*time.Millisecond, 7, nil))
	require.NoError(t, store.RecordQuery("fetch spans", 0, 0, errors.New("engine unavailable")))

	var count int
	require.NoError(t, store.QueryRow(`SELECT COUNT(*) FROM query_audit`).Scan(&count))
	assert.Equal(t, 2, count)

	var errText string
	require.NoError(t, store.QueryRow(
		`SELECT error FROM query_audit WHERE error IS NOT NULL`).Scan(&errText))
	assert.Equal(t, "engine unavailable", errText)
}

func TestRecordQueryNilReceiver(t *testing.T) {
	var store *DB
	assert.NoError(t, store.RecordQuery("fetch bizevents", time.Millisecond, 0, nil))
}
