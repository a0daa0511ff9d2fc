package users

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

const selectUser = `
	SELECT u.id, u.email, u.username, u.full_name, u.password_hash, u.role,
	       u.bio, u.about, u.phone, u.website, u.location, u.profile_picture,
	       u.is_active, u.date_joined,
	       (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id),
	       (SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id)
	FROM users u
`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.UserName, &u.FullName, &u.PasswordHash, &u.Role,
		&u.Bio, &u.About, &u.Phone, &u.Website, &u.Location, &u.ProfilePicture,
		&u.IsActive, &u.DateJoined, &u.FollowersCount, &u.FollowingCount)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}
	user.Email = normalizeEmail(user.Email)

	query := `
		INSERT INTO users (id, email, username, full_name, password_hash, role,
			bio, about, phone, website, location, profile_picture, is_active, date_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.UserName, user.FullName, user.PasswordHash, user.Role,
		user.Bio, user.About, user.Phone, user.Website, user.Location, user.ProfilePicture,
		user.IsActive, user.DateJoined)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, where string, args ...any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE u.email = ?`, normalizeEmail(email))
}

// normalizeEmail is the stored form of an email: trimmed and lowercased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `WHERE u.id = ?`, id)
}

func (r *SQLiteRepository) Resolve(ctx context.Context, idOrUserName string) (*models.User, error) {
	return r.getOne(ctx, `WHERE u.id = ? OR u.username = ?`, idOrUserName, idOrUserName)
}

func (r *SQLiteRepository) UserNameTaken(ctx context.Context, userName string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, userName).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET username = ?, full_name = ?, password_hash = ?, role = ?,
			bio = ?, about = ?, phone = ?, website = ?, location = ?,
			profile_picture = ?, is_active = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		user.UserName, user.FullName, user.PasswordHash, user.Role,
		user.Bio, user.About, user.Phone, user.Website, user.Location,
		user.ProfilePicture, user.IsActive, user.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Follow(ctx context.Context, followerID, followingID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, ?)`,
		followerID, followingID, time.Now().UTC())
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Unfollow(ctx context.Context, followerID, followingID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Followers(ctx context.Context, userID string) ([]models.User, error) {
	return r.list(ctx, `
		JOIN follows f ON f.follower_id = u.id
		WHERE f.following_id = ?
		ORDER BY f.created_at DESC`, userID)
}

func (r *SQLiteRepository) Following(ctx context.Context, userID string) ([]models.User, error) {
	return r.list(ctx, `
		JOIN follows f ON f.following_id = u.id
		WHERE f.follower_id = ?
		ORDER BY f.created_at DESC`, userID)
}

func (r *SQLiteRepository) list(ctx context.Context, rest string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+rest, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

