// Package repotest provides a migrated in-memory database for repository
// and service tests.
package repotest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/server/migrations"

	_ "modernc.org/sqlite"
)

// NewDB returns a fresh, fully migrated in-memory database that is closed
// when the test ends.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := dbx.OpenSQLite(dbx.MemoryDSN, "foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

// InsertUser adds a minimal active user row and returns its id.
func InsertUser(t testing.TB, db *sql.DB, id, email, userName string) string {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO users (id, email, username, full_name, password_hash, date_joined)
		VALUES (?, ?, ?, ?, 'x', ?)`, id, email, userName, userName, time.Now().UTC())
	require.NoError(t, err)
	return id
}
