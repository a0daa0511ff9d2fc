package services

import "github.com/google/uuid"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ErrInvalidPage is returned for page numbers outside the result set.
var ErrInvalidPage = badRequest("Invalid page.")

// Paging is a resolved page window.
type Paging struct {
	Page   int
	Size   int
	Limit  int
	Offset int
}

// NewPaging clamps size to [1, MaxPageSize], defaulting to DefaultPageSize.
// Pages start at 1; anything lower yields ErrInvalidPage.
func NewPaging(page, size int) (Paging, error) {
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return Paging{}, ErrInvalidPage
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return Paging{Page: page, Size: size, Limit: size, Offset: (page - 1) * size}, nil
}

// Check reports ErrInvalidPage when p lies past the last page of total
// results. The first page is always valid.
func (p Paging) Check(total int) error {
	if p.Page > 1 && p.Offset >= total {
		return ErrInvalidPage
	}
	return nil
}

// HasNext reports whether results follow this page.
func (p Paging) HasNext(total int) bool { return p.Offset+p.Size < total }

func newID() string { return uuid.NewString() }

// unique drops repeated ids, keeping the first occurrence. Nil stays nil.
func unique(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
