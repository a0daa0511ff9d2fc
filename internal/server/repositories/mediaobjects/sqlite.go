package mediaobjects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Put stores data under key, replacing any previous object.
func (r *SQLiteRepository) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO media_objects (key, content_type, data, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET content_type = excluded.content_type, data = excluded.data`,
		key, contentType, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, []byte, error) {
	var contentType string
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT content_type, data FROM media_objects WHERE key = ?`, key).
		Scan(&contentType, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, common.ErrorNotFound
		}
		return "", nil, fmt.Errorf("db error: %w", err)
	}
	return contentType, data, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media_objects WHERE key = ?`, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
