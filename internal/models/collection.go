package models

import "time"

type CollectionPhoto struct {
	ID      string    `json:"id"`
	Photo   Photo     `json:"photo"`
	Order   int       `json:"order"`
	AddedAt time.Time `json:"added_at"`
}

type Collection struct {
	ID            string            `json:"id"`
	User          *UserProfile      `json:"user,omitempty"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description,omitempty"`
	IsPrivate     bool              `json:"is_private"`
	CoverPhotoURL *string           `json:"cover_photo_url,omitempty"`
	Photos        []CollectionPhoto `json:"photos"`
	ArtworkCount  int               `json:"artwork_count"`
	ViewsCount    int               `json:"views_count"`
	LikesCount    int               `json:"likes_count"`
	IsLiked       bool              `json:"is_liked"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type CollectionInput struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	IsPrivate   *bool    `json:"is_private,omitempty"`
	PhotoIDs    []string `json:"photo_ids,omitempty"`
}

// AddPhotoRequest is the POST /collections/{id}/photos payload.
type AddPhotoRequest struct {
	PhotoID string `json:"photo_id"`
}
