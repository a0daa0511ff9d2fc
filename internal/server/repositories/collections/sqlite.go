package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
)

const selectCollection = `
	SELECT c.id, c.user_id, c.name, c.slug, c.description, c.is_private, c.views_count,
	       c.created_at, c.updated_at,
	       (SELECT COUNT(*) FROM collection_photos cp WHERE cp.collection_id = c.id) AS artwork_count,
	       (SELECT COUNT(*) FROM collection_likes cl WHERE cl.collection_id = c.id) AS likes_count
	FROM collections c
	JOIN users u ON u.id = c.user_id
`

var orderings = map[string]string{
	"created_at":     "c.created_at ASC",
	"-created_at":    "c.created_at DESC",
	"name":           "c.name COLLATE NOCASE ASC",
	"-name":          "c.name COLLATE NOCASE DESC",
	"likes_count":    "likes_count ASC",
	"-likes_count":   "likes_count DESC",
	"views_count":    "c.views_count ASC",
	"-views_count":   "c.views_count DESC",
	"artwork_count":  "artwork_count ASC",
	"-artwork_count": "artwork_count DESC",
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanCollection(row interface{ Scan(...any) error }) (*models.Collection, error) {
	c := &models.Collection{}
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Slug, &c.Description, &c.IsPrivate, &c.ViewsCount,
		&c.CreatedAt, &c.UpdatedAt, &c.PhotoCount, &c.LikesCount)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, c *models.Collection) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.UpdatedAt = c.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collections (id, user_id, name, slug, description, is_private, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Slug, c.Description, c.IsPrivate, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Collection, error) {
	c, err := scanCollection(r.db.QueryRowContext(ctx, selectCollection+`WHERE c.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) List(ctx context.Context, f models.CollectionFilter) ([]models.Collection, int, error) {
	where := []string{`(c.is_private = 0 OR c.user_id = ?)`}
	args := []any{f.ViewerID}

	if f.Search != "" {
		like := "%" + f.Search + "%"
		where = append(where, `(c.name LIKE ? OR c.description LIKE ?)`)
		args = append(args, like, like)
	}
	if f.User != "" {
		where = append(where, `(u.id = ? OR u.username = ?)`)
		args = append(args, f.User, f.User)
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM collections c JOIN users u ON u.id = c.user_id`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	order, ok := orderings[f.Ordering]
	if !ok {
		order = orderings["-created_at"]
	}
	rows, err := r.db.QueryContext(ctx,
		selectCollection+cond+` ORDER BY `+order+`, c.id LIMIT ? OFFSET ?`,
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return out, total, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, c *models.Collection) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE collections SET name = ?, slug = ?, description = ?, is_private = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Slug, c.Description, c.IsPrivate, c.UpdatedAt, c.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE collections SET views_count = views_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Photos(ctx context.Context, id string) ([]models.CollectionPhoto, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT photo_id, position, added_at FROM collection_photos
		WHERE collection_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.CollectionPhoto{}
	for rows.Next() {
		var cp models.CollectionPhoto
		if err := rows.Scan(&cp.PhotoID, &cp.Position, &cp.AddedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) AddPhoto(ctx context.Context, id, photoID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collection_photos (collection_id, photo_id, position, added_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM collection_photos WHERE collection_id = ?), ?)`,
		id, photoID, id, time.Now().UTC())
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RemovePhoto(ctx context.Context, id, photoID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM collection_photos WHERE collection_id = ? AND photo_id = ?`, id, photoID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Like(ctx context.Context, id, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collection_likes (collection_id, user_id, created_at) VALUES (?, ?, ?)`,
		id, userID, time.Now().UTC())
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Unlike(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM collection_likes WHERE collection_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) LikedBy(ctx context.Context, userID string, ids []string) (map[string]bool, error) {
	liked := map[string]bool{}
	if userID == "" || len(ids) == 0 {
		return liked, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT collection_id FROM collection_likes WHERE user_id = ? AND collection_id IN (`+dbx.Placeholders(len(ids))+`)`,
		append([]any{userID}, dbx.Args(ids)...)...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		liked[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return liked, nil
}

