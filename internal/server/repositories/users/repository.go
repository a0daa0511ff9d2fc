// Package users declares the server-side repository contract for accounts
// and the follow graph, with a SQLite implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/artfolio/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID when empty. A taken email or
	// username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin finds a user by email, case-insensitively.
	GetUserByLogin(ctx context.Context, email string) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)

	// Resolve finds a user by id or username.
	Resolve(ctx context.Context, idOrUserName string) (*models.User, error)

	UserNameTaken(ctx context.Context, userName string) (bool, error)

	// Update writes every mutable column of user.
	Update(ctx context.Context, user *models.User) error

	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	Followers(ctx context.Context, userID string) ([]models.User, error)
	Following(ctx context.Context, userID string) ([]models.User, error)
}
