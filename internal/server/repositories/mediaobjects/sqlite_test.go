package mediaobjects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repotest"
)

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(repotest.NewDB(t))

	require.NoError(t, repo.Put(ctx, "photos/a.png", "image/png", []byte{1, 2}))
	require.NoError(t, repo.Put(ctx, "photos/a.png", "image/png", []byte{3}), "put overwrites")

	ct, data, err := repo.Get(ctx, "photos/a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, []byte{3}, data)

	require.NoError(t, repo.Delete(ctx, "photos/a.png"))
	_, _, err = repo.Get(ctx, "photos/a.png")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
