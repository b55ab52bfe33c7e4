package services

import (
	"database/sql"
	"testing"

	"github.com/spiceroute/spiceroute-be/internal/database"
	"github.com/stretchr/testify/require"
)

// newTestDB opens an in-memory sqlite database with the real schema. A single
// connection keeps the memory database alive for the test's duration.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { db.Close() })
	return db
}
