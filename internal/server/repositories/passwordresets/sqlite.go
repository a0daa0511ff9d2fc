package passwordresets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, verifier, userID string, validity time.Duration) error {
	query := `INSERT INTO password_resets (verifier, user_id, expires_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, verifier, userID, time.Now().UTC().Add(validity)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Take(ctx context.Context, verifier string) (*models.PasswordReset, error) {
	p := &models.PasswordReset{}
	err := r.db.QueryRowContext(ctx,
		`SELECT verifier, user_id, expires_at FROM password_resets WHERE verifier = ?`, verifier).
		Scan(&p.Verifier, &p.UserID, &p.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE verifier = ?`, verifier); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
