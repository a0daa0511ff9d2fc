// Package passwordresets stores pending password reset requests.
package passwordresets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/artfolio/internal/server/models"
)

type Repository interface {
	// Create records a reset for userID identified by verifier.
	Create(ctx context.Context, verifier, userID string, validity time.Duration) error

	// Take returns and removes the reset identified by verifier, so each
	// token works once. Absent verifiers yield common.ErrorNotFound.
	Take(ctx context.Context, verifier string) (*models.PasswordReset, error)
}
