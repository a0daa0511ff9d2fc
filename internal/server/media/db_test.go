package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repotest"
)

func TestDBStorage(t *testing.T) {
	ctx := context.Background()
	s := NewDBStorage(repotest.NewDB(t), repomanager.NewSQLiteRepositoryManager(), "http://gallery.local/")

	require.NoError(t, s.Put(ctx, "photos/p 1/original.png", "image/png", []byte("x")))

	ct, data, err := s.Open(ctx, "photos/p 1/original.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, []byte("x"), data)

	u, err := s.URL(ctx, "photos/p 1/original.png", "")
	require.NoError(t, err)
	assert.Equal(t, "http://gallery.local/media/photos/p%201/original.png", u)

	u, err = s.URL(ctx, "photos/p1/small.jpg", "dune_small.jpg")
	require.NoError(t, err)
	assert.Equal(t, "http://gallery.local/media/photos/p1/small.jpg?download=dune_small.jpg", u)

	require.NoError(t, s.Delete(ctx, "photos/p 1/original.png"))
	_, _, err = s.Open(ctx, "photos/p 1/original.png")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDBStorage_RelativeLinks(t *testing.T) {
	s := NewDBStorage(nil, repomanager.NewSQLiteRepositoryManager(), "")
	u, err := s.URL(context.Background(), "a/b.png", "")
	require.NoError(t, err)
	assert.Equal(t, "/media/a/b.png", u)
}

func TestDBStorage_RequestOrigin(t *testing.T) {
	s := NewDBStorage(nil, repomanager.NewSQLiteRepositoryManager(), "")
	ctx := WithBaseURL(context.Background(), "http://127.0.0.1:8000/")
	u, err := s.URL(ctx, "a/b.png", "")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000/media/a/b.png", u)

	s = NewDBStorage(nil, repomanager.NewSQLiteRepositoryManager(), "https://cdn.example")
	u, err = s.URL(ctx, "a/b.png", "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/media/a/b.png", u, "configured public URL wins")
}
