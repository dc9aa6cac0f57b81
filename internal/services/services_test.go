package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/isdelr/fintrack-be/internal/database"
	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { db.Close() })
	return db
}

func money(s string) models.Money {
	return decimal.RequireFromString(s)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
