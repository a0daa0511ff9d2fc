package terms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
)

const selectTerm = `
	SELECT t.id, t.kind, t.name, t.slug, t.description, t.created_at,
	       (SELECT COUNT(*) FROM photo_terms pt
	          JOIN photos p ON p.id = pt.photo_id
	         WHERE pt.term_id = t.id AND p.is_public = 1)
	FROM terms t
`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanTerm(row interface{ Scan(...any) error }) (*models.Term, error) {
	t := &models.Term{}
	if err := row.Scan(&t.ID, &t.Kind, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.PhotosCount); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, term *models.Term) (*models.Term, error) {
	if term.ID == "" {
		term.ID = uuid.NewString()
	}
	if term.CreatedAt.IsZero() {
		term.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO terms (id, kind, name, slug, description, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		term.ID, term.Kind, term.Name, term.Slug, term.Description, term.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return term, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, kind, idOrSlug string) (*models.Term, error) {
	t, err := scanTerm(r.db.QueryRowContext(ctx,
		selectTerm+`WHERE t.kind = ? AND (t.id = ? OR t.slug = ?)`, kind, idOrSlug, idOrSlug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) List(ctx context.Context, kind string) ([]models.Term, error) {
	rows, err := r.db.QueryContext(ctx, selectTerm+`WHERE t.kind = ? ORDER BY t.name`, kind)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Term{}
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, term *models.Term) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE terms SET name = ?, slug = ?, description = ? WHERE kind = ? AND id = ?`,
		term.Name, term.Slug, term.Description, term.Kind, term.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, kind, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM terms WHERE kind = ? AND id = ?`, kind, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Missing(ctx context.Context, kind string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := append([]any{kind}, dbx.Args(ids)...)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM terms WHERE kind = ? AND id IN (`+dbx.Placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

