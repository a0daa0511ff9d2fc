// Package models defines server-side records persisted in the database.
package models

import "time"

type User struct {
	ID             string
	Email          string
	UserName       string
	FullName       string
	PasswordHash   string
	Role           string
	Bio            string
	About          string
	Phone          string
	Website        string
	Location       string
	ProfilePicture string // media key, empty when unset
	IsActive       bool
	DateJoined     time.Time

	// Derived on read.
	FollowersCount int
	FollowingCount int
}

// RefreshToken is an issued refresh token. Presenting it once spends it.
type RefreshToken struct {
	ID        int64
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

func (t *RefreshToken) Expired(now time.Time) bool { return !now.Before(t.Expires) }

// PasswordReset is a pending reset request. Only the verifier of the token
// mailed to the user is stored.
type PasswordReset struct {
	Verifier string
	UserID   string
	Expires  time.Time
}

func (r *PasswordReset) Expired(now time.Time) bool { return !now.Before(r.Expires) }
