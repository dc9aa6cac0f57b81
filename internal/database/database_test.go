package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "expenses", "events"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, Migrate(ctx, db))
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(
		"INSERT INTO expenses (id, user_id, category, amount_minor, created_at) VALUES (?, ?, ?, ?, ?)",
		"e1", "missing-user", "Food", 100, time.Now().UTC(),
	)
	assert.Error(t, err)
}

func TestTimestampsRoundTrip(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	_, err = db.Exec(
		"INSERT INTO events (id, type, level, message, created_at) VALUES (?, ?, ?, ?, ?)",
		"ev1", "test", "info", "hello", ts,
	)
	require.NoError(t, err)

	var got time.Time
	require.NoError(t, db.QueryRow("SELECT created_at FROM events WHERE id = ?", "ev1").Scan(&got))
	assert.True(t, ts.Equal(got), "expected %v, got %v", ts, got)
}
