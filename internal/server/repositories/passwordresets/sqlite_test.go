package passwordresets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repotest"
)

func TestTakeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	db := repotest.NewDB(t)
	repotest.InsertUser(t, db, "u1", "a@x.io", "a")
	repo := NewSQLiteRepository(db)

	require.NoError(t, repo.Create(ctx, "v1", "u1", time.Hour))

	got, err := repo.Take(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.Expires.After(time.Now()))

	_, err = repo.Take(ctx, "v1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
