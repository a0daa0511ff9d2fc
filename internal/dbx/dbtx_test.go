package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/artfolio/internal/common"
)

func likesDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE likes (photo_id TEXT NOT NULL, user_id TEXT NOT NULL, PRIMARY KEY (photo_id, user_id))`)
	require.NoError(t, err)
	return db
}

func countLikes(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM likes`).Scan(&n))
	return n
}

func like(ctx context.Context, tx DBTX, user string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO likes (photo_id, user_id) VALUES ('p1', ?)`, user)
	return err
}

func TestWithTx_Commits(t *testing.T) {
	db := likesDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if err := like(ctx, tx, "u1"); err != nil {
			return err
		}
		return like(ctx, tx, "u2")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countLikes(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := likesDB(t)

	boom := errors.New("boom")
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, like(ctx, tx, "u1"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countLikes(t, db))
}

func TestWithTx_RollsBackOnConstraintViolation(t *testing.T) {
	db := likesDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, like(ctx, tx, "u1"))
		return like(ctx, tx, "u1")
	})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.Equal(t, 0, countLikes(t, db))
}

func TestWithTx_PanicPropagates(t *testing.T) {
	db := likesDB(t)

	defer func() {
		require.Equal(t, "kaput", recover())
		assert.Equal(t, 0, countLikes(t, db))
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, like(ctx, tx, "u1"))
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := likesDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
	assert.False(t, called)
}

func TestExpectAffected(t *testing.T) {
	db := likesDB(t)
	ctx := context.Background()
	require.NoError(t, like(ctx, db, "u1"))

	res, err := db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = 'u1'`)
	require.NoError(t, err)
	assert.NoError(t, ExpectAffected(res))

	res, err = db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = 'u1'`)
	require.NoError(t, err)
	assert.ErrorIs(t, ExpectAffected(res), common.ErrorNotFound)
}
