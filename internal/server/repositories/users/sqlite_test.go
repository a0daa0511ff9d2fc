package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repotest"
)

func newUser(email, userName string) *models.User {
	return &models.User{Email: email, UserName: userName, FullName: "Full " + userName, PasswordHash: "h", Role: "user", IsActive: true}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(repotest.NewDB(t))

	u, err := repo.Create(ctx, newUser("Alice@Example.com", "alice"))
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)

	got, err := repo.GetUserByLogin(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Full alice", got.FullName)
	assert.True(t, got.IsActive)
	assert.False(t, got.DateJoined.IsZero())

	byName, err := repo.Resolve(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := repo.Resolve(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.UserName)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetUserByLogin_Normalizes(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(repotest.NewDB(t))

	u, err := repo.Create(ctx, newUser(" Ann@Example.com ", "ann"))
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)

	for _, login := range []string{"ann@example.com", "  Ann@Example.com ", "\tANN@EXAMPLE.COM\n"} {
		got, err := repo.GetUserByLogin(ctx, login)
		require.NoError(t, err, login)
		assert.Equal(t, u.ID, got.ID, login)
	}

	_, err = repo.GetUserByLogin(ctx, "ann@example.org")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(repotest.NewDB(t))

	_, err := repo.Create(ctx, newUser("a@x.io", "a"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("a@x.io", "other"))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = repo.Create(ctx, newUser("b@x.io", "a"))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	taken, err := repo.UserNameTaken(ctx, "a")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.UserNameTaken(ctx, "b")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(repotest.NewDB(t))

	u, err := repo.Create(ctx, newUser("a@x.io", "a"))
	require.NoError(t, err)

	u.Bio = "painter"
	u.ProfilePicture = "avatars/a.png"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "painter", got.Bio)
	assert.Equal(t, "avatars/a.png", got.ProfilePicture)

	assert.ErrorIs(t, repo.Update(ctx, &models.User{ID: "nope", UserName: "zz"}), common.ErrorNotFound)
}

func TestFollowGraph(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(repotest.NewDB(t))

	a, err := repo.Create(ctx, newUser("a@x.io", "a"))
	require.NoError(t, err)
	b, err := repo.Create(ctx, newUser("b@x.io", "b"))
	require.NoError(t, err)

	require.NoError(t, repo.Follow(ctx, a.ID, b.ID))
	assert.ErrorIs(t, repo.Follow(ctx, a.ID, b.ID), common.ErrorAlreadyExists)

	followers, err := repo.Followers(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "a", followers[0].UserName)
	assert.Equal(t, 1, followers[0].FollowingCount)

	following, err := repo.Following(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, 1, following[0].FollowersCount)

	require.NoError(t, repo.Unfollow(ctx, a.ID, b.ID))
	assert.ErrorIs(t, repo.Unfollow(ctx, a.ID, b.ID), common.ErrorNotFound)

	followers, err = repo.Followers(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
}
