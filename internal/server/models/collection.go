package models

import "time"

type Collection struct {
	ID          string
	UserID      string
	Name        string
	Slug        string
	Description string
	IsPrivate   bool
	ViewsCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Derived on read.
	PhotoCount int
	LikesCount int
}

// CollectionPhoto is one entry of a collection, in display order.
type CollectionPhoto struct {
	PhotoID  string
	Position int
	AddedAt  time.Time
}

type CollectionFilter struct {
	ViewerID string
	Search   string
	User     string // id or username
	Ordering string
	Limit    int
	Offset   int
}
