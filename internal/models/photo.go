package models

import "time"

type Photo struct {
	ID            string       `json:"id"`
	User          *UserProfile `json:"user,omitempty"`
	Image         string       `json:"image"`
	ThumbnailURL  string       `json:"thumbnail_url,omitempty"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Width         int          `json:"width,omitempty"`
	Height        int          `json:"height,omitempty"`
	Format        string       `json:"format,omitempty"`
	FileSize      int64        `json:"file_size,omitempty"`
	Categories    []string     `json:"categories"`
	Tags          []string     `json:"tags"`
	LikesCount    int          `json:"likes_count"`
	ViewsCount    int          `json:"views_count"`
	DownloadCount int          `json:"download_count"`
	IsLiked       bool         `json:"is_liked"`
	IsPublic      bool         `json:"is_public"`
	IsFeatured    bool         `json:"is_featured"`
	Medium        string       `json:"medium,omitempty"`
	Year          string       `json:"year,omitempty"`
	Location      string       `json:"location,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// PhotoInput is the create/update payload for photo metadata.
type PhotoInput struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	CategoryIDs []string `json:"category_ids,omitempty"`
	TagIDs      []string `json:"tag_ids,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Medium      string   `json:"medium,omitempty"`
	Year        string   `json:"year,omitempty"`
	Location    string   `json:"location,omitempty"`
}

// Download sizes accepted by GET /photos/{id}/download.
const (
	SizeOriginal = "original"
	SizeLarge    = "large"
	SizeMedium   = "medium"
	SizeSmall    = "small"
)

// DownloadLink is the body of GET /photos/{id}/download.
type DownloadLink struct {
	URL      string `json:"download_url"`
	Size     string `json:"size"`
	Filename string `json:"filename,omitempty"`
}

// LikeResponse is returned by like/unlike endpoints.
type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}
