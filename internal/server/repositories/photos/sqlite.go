package photos

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

const selectPhoto = `
	SELECT p.id, p.user_id, p.title, p.description, p.image_key, p.width, p.height,
	       p.format, p.file_size, p.is_public, p.is_featured, p.medium, p.year,
	       p.location, p.views_count, p.download_count, p.created_at, p.updated_at,
	       (SELECT COUNT(*) FROM photo_likes l WHERE l.photo_id = p.id) AS likes_count
	FROM photos p
	JOIN users u ON u.id = p.user_id
`

// orderings maps the accepted ?ordering= values to ORDER BY clauses.
var orderings = map[string]string{
	"created_at":      "p.created_at ASC",
	"-created_at":     "p.created_at DESC",
	"title":           "p.title COLLATE NOCASE ASC",
	"-title":          "p.title COLLATE NOCASE DESC",
	"likes_count":     "likes_count ASC",
	"-likes_count":    "likes_count DESC",
	"views_count":     "p.views_count ASC",
	"-views_count":    "p.views_count DESC",
	"download_count":  "p.download_count ASC",
	"-download_count": "p.download_count DESC",
}

const defaultOrdering = "-created_at"

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanPhoto(row interface{ Scan(...any) error }) (*models.Photo, error) {
	p := &models.Photo{}
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.ImageKey, &p.Width, &p.Height,
		&p.Format, &p.FileSize, &p.IsPublic, &p.IsFeatured, &p.Medium, &p.Year,
		&p.Location, &p.ViewsCount, &p.DownloadCount, &p.CreatedAt, &p.UpdatedAt, &p.LikesCount)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, photo *models.Photo) error {
	if photo.ID == "" {
		photo.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = now
	}
	photo.UpdatedAt = photo.CreatedAt

	query := `
		INSERT INTO photos (id, user_id, title, description, image_key, width, height, format,
			file_size, is_public, is_featured, medium, year, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		photo.ID, photo.UserID, photo.Title, photo.Description, photo.ImageKey, photo.Width, photo.Height,
		photo.Format, photo.FileSize, photo.IsPublic, photo.IsFeatured, photo.Medium, photo.Year,
		photo.Location, photo.CreatedAt, photo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return r.linkTerms(ctx, photo.ID, append(append([]string{}, photo.CategoryIDs...), photo.TagIDs...))
}

func (r *SQLiteRepository) linkTerms(ctx context.Context, photoID string, termIDs []string) error {
	for _, id := range termIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO photo_terms (photo_id, term_id) VALUES (?, ?)`, photoID, id)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Photo, error) {
	p, err := scanPhoto(r.db.QueryRowContext(ctx, selectPhoto+`WHERE p.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadTerms(ctx, []*models.Photo{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteRepository) List(ctx context.Context, f models.PhotoFilter) ([]models.Photo, int, error) {
	var where []string
	var args []any

	where = append(where, `(p.is_public = 1 OR p.user_id = ?)`)
	args = append(args, f.ViewerID)

	if f.Search != "" {
		like := "%" + f.Search + "%"
		where = append(where, `(p.title LIKE ? OR p.description LIKE ?)`)
		args = append(args, like, like)
	}
	for kind, v := range map[string]string{models.KindCategory: f.Category, models.KindTag: f.Tag} {
		if v == "" {
			continue
		}
		where = append(where, `EXISTS (SELECT 1 FROM photo_terms pt JOIN terms t ON t.id = pt.term_id
			WHERE pt.photo_id = p.id AND t.kind = ? AND (t.id = ? OR t.slug = ?))`)
		args = append(args, kind, v, v)
	}
	if f.User != "" {
		where = append(where, `(u.id = ? OR u.username = ?)`)
		args = append(args, f.User, f.User)
	}

	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM photos p JOIN users u ON u.id = p.user_id` + cond
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	order, ok := orderings[f.Ordering]
	if !ok {
		order = orderings[defaultOrdering]
	}
	query := selectPhoto + cond + ` ORDER BY ` + order + `, p.id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	var page []*models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		page = append(page, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadTerms(ctx, page); err != nil {
		return nil, 0, err
	}

	out := make([]models.Photo, 0, len(page))
	for _, p := range page {
		out = append(out, *p)
	}
	return out, total, nil
}

// loadTerms fills CategoryIDs and TagIDs of photos with one query.
func (r *SQLiteRepository) loadTerms(ctx context.Context, photos []*models.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	byID := make(map[string]*models.Photo, len(photos))
	ids := make([]string, 0, len(photos))
	for _, p := range photos {
		byID[p.ID] = p
		ids = append(ids, p.ID)
		p.CategoryIDs = []string{}
		p.TagIDs = []string{}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT pt.photo_id, t.id, t.kind
		FROM photo_terms pt JOIN terms t ON t.id = pt.term_id
		WHERE pt.photo_id IN (`+dbx.Placeholders(len(ids))+`)
		ORDER BY t.name`, dbx.Args(ids)...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var photoID, termID, kind string
		if err := rows.Scan(&photoID, &termID, &kind); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		p := byID[photoID]
		if kind == models.KindCategory {
			p.CategoryIDs = append(p.CategoryIDs, termID)
		} else {
			p.TagIDs = append(p.TagIDs, termID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, photo *models.Photo) error {
	photo.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE photos SET title = ?, description = ?, is_public = ?, is_featured = ?,
			medium = ?, year = ?, location = ?, updated_at = ?
		WHERE id = ?`,
		photo.Title, photo.Description, photo.IsPublic, photo.IsFeatured,
		photo.Medium, photo.Year, photo.Location, photo.UpdatedAt, photo.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectAffected(res); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM photo_terms WHERE photo_id = ?`, photo.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.linkTerms(ctx, photo.ID, append(append([]string{}, photo.CategoryIDs...), photo.TagIDs...))
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) IncrementViews(ctx context.Context, id string) error {
	return r.bump(ctx, "views_count", id)
}

func (r *SQLiteRepository) IncrementDownloads(ctx context.Context, id string) error {
	return r.bump(ctx, "download_count", id)
}

func (r *SQLiteRepository) bump(ctx context.Context, column, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE photos SET `+column+` = `+column+` + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Like(ctx context.Context, photoID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO photo_likes (photo_id, user_id, created_at) VALUES (?, ?, ?)`,
		photoID, userID, time.Now().UTC())
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Unlike(ctx context.Context, photoID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM photo_likes WHERE photo_id = ? AND user_id = ?`, photoID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) LikedBy(ctx context.Context, userID string, photoIDs []string) (map[string]bool, error) {
	liked := map[string]bool{}
	if userID == "" || len(photoIDs) == 0 {
		return liked, nil
	}

	args := append([]any{userID}, dbx.Args(photoIDs)...)
	rows, err := r.db.QueryContext(ctx,
		`SELECT photo_id FROM photo_likes WHERE user_id = ? AND photo_id IN (`+dbx.Placeholders(len(photoIDs))+`)`,
		args...)
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

