package models

import "time"

// Term is a category or a tag; both share one shape on the wire.
type Term struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	PhotosCount int       `json:"photos_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type (
	Category = Term
	Tag      = Term
)

type TermInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
