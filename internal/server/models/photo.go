package models

import "time"

type Photo struct {
	ID            string
	UserID        string
	Title         string
	Description   string
	ImageKey      string // media key of the original upload
	Width         int
	Height        int
	Format        string
	FileSize      int64
	IsPublic      bool
	IsFeatured    bool
	Medium        string
	Year          string
	Location      string
	ViewsCount    int
	DownloadCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Derived on read.
	CategoryIDs []string
	TagIDs      []string
	LikesCount  int
}

// PhotoFilter narrows a photo listing. ViewerID selects which private
// photos are visible: only the viewer's own.
type PhotoFilter struct {
	ViewerID string
	Search   string
	Category string // id or slug
	Tag      string // id or slug
	User     string // id or username
	Ordering string
	Limit    int
	Offset   int
}
