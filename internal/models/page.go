package models

// Page is a paginated list envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ListParams are the common filters of list endpoints. Zero values are
// omitted from the query string.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Ordering string
	Category string
	Tag      string
	User     string
}

// Query renders p as query parameters; unset fields map to nil.
func (p ListParams) Query() map[string]any {
	q := map[string]any{}
	set := func(k string, v any, ok bool) {
		if ok {
			q[k] = v
		} else {
			q[k] = nil
		}
	}
	set("page", p.Page, p.Page > 0)
	set("page_size", p.PageSize, p.PageSize > 0)
	set("search", p.Search, p.Search != "")
	set("ordering", p.Ordering, p.Ordering != "")
	set("category", p.Category, p.Category != "")
	set("tag", p.Tag, p.Tag != "")
	set("user", p.User, p.User != "")
	return q
}
