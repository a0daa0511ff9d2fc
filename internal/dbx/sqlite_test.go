package dbx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithPragmas(t *testing.T) {
	assert.Equal(t, "a.db", withPragmas("a.db", nil))
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)", withPragmas("a.db", []string{"busy_timeout(5000)"}))
	assert.Equal(t, "a.db?mode=rw&_pragma=x(1)&_pragma=y(2)", withPragmas("a.db?mode=rw", []string{"x(1)", "y(2)"}))
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)", withPragmas(MemoryDSN, []string{"foreign_keys(1)"}))
}

func TestOpenSQLite_Memory(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(MemoryDSN, "foreign_keys(1)")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE t (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)

	// the table is visible to later statements because there is one connection
	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Zero(t, n)

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "u.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE t (id TEXT PRIMARY KEY, name TEXT UNIQUE)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO t VALUES ('1', 'a')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO t VALUES ('1', 'b')`)
	assert.True(t, IsUniqueViolation(err), "primary key")

	_, err = db.ExecContext(ctx, `INSERT INTO t VALUES ('2', 'a')`)
	assert.True(t, IsUniqueViolation(err), "unique column")

	_, err = db.ExecContext(ctx, `INSERT INTO missing VALUES ('3')`)
	assert.False(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(nil))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", Placeholders(0))
	assert.Equal(t, "?", Placeholders(1))
	assert.Equal(t, "?,?,?", Placeholders(3))
	assert.Equal(t, []any{"a", "b"}, Args([]string{"a", "b"}))
}
