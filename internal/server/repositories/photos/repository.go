// Package photos stores artworks, their category and tag links, and likes.
package photos

import (
	"context"

	"github.com/dmitrijs2005/artfolio/internal/server/models"
)

type Repository interface {
	// Create inserts photo together with its term links.
	Create(ctx context.Context, photo *models.Photo) error
	Get(ctx context.Context, id string) (*models.Photo, error)

	// List returns one page of photos matching f plus the total match count.
	List(ctx context.Context, f models.PhotoFilter) ([]models.Photo, int, error)

	// Update writes the mutable columns and replaces the term links.
	Update(ctx context.Context, photo *models.Photo) error
	Delete(ctx context.Context, id string) error

	IncrementViews(ctx context.Context, id string) error
	IncrementDownloads(ctx context.Context, id string) error

	// Like records a like; liking twice yields common.ErrorAlreadyExists.
	Like(ctx context.Context, photoID, userID string) error
	// Unlike removes a like; common.ErrorNotFound when there was none.
	Unlike(ctx context.Context, photoID, userID string) error
	// LikedBy returns which of photoIDs userID has liked.
	LikedBy(ctx context.Context, userID string, photoIDs []string) (map[string]bool, error)
}
