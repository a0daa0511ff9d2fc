// Package collections stores curated, ordered sets of photos.
package collections

import (
	"context"

	"github.com/dmitrijs2005/artfolio/internal/server/models"
)

type Repository interface {
	// Create inserts c; a slug already used by the owner yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, c *models.Collection) error
	Get(ctx context.Context, id string) (*models.Collection, error)
	List(ctx context.Context, f models.CollectionFilter) ([]models.Collection, int, error)
	Update(ctx context.Context, c *models.Collection) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error

	// Photos returns the entries of collection id in display order.
	Photos(ctx context.Context, id string) ([]models.CollectionPhoto, error)
	// AddPhoto appends photoID; adding it twice yields common.ErrorAlreadyExists.
	AddPhoto(ctx context.Context, id, photoID string) error
	RemovePhoto(ctx context.Context, id, photoID string) error

	Like(ctx context.Context, id, userID string) error
	Unlike(ctx context.Context, id, userID string) error
	LikedBy(ctx context.Context, userID string, ids []string) (map[string]bool, error)
}
