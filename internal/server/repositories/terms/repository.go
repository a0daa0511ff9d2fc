// Package terms stores categories and tags. Both live in one table and are
// told apart by kind.
package terms

import (
	"context"

	"github.com/dmitrijs2005/artfolio/internal/server/models"
)

type Repository interface {
	// Create inserts term; a clashing name or slug within its kind yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, term *models.Term) (*models.Term, error)

	// Get finds a term of kind by id or slug.
	Get(ctx context.Context, kind, idOrSlug string) (*models.Term, error)

	List(ctx context.Context, kind string) ([]models.Term, error)
	Update(ctx context.Context, term *models.Term) error
	Delete(ctx context.Context, kind, id string) error

	// Missing returns the ids among ids that are not terms of kind.
	Missing(ctx context.Context, kind string, ids []string) ([]string, error)
}
