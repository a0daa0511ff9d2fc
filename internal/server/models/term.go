package models

import "time"

// Term kinds.
const (
	KindCategory = "category"
	KindTag      = "tag"
)

// Term is a category or a tag.
type Term struct {
	ID          string
	Kind        string
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time

	// Derived on read.
	PhotosCount int
}
