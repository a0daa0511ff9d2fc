package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/artfolio/internal/models"
)

// Categories and tags share one REST shape; termAPI is parameterized by the
// collection root.
type termAPI struct {
	c    *HTTPClient
	root string
}

func (t termAPI) list(ctx context.Context) ([]models.Term, error) {
	out, err := decodeInto[[]models.Term](ctx, t.c, &Request{Method: http.MethodGet, Endpoint: t.root})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (t termAPI) get(ctx context.Context, id string) (*models.Term, error) {
	return decodeInto[models.Term](ctx, t.c, &Request{Method: http.MethodGet, Endpoint: t.root + "/" + url.PathEscape(id)})
}

func (t termAPI) create(ctx context.Context, in models.TermInput) (*models.Term, error) {
	return decodeInto[models.Term](ctx, t.c, &Request{Method: http.MethodPost, Endpoint: t.root, Body: in})
}

func (t termAPI) update(ctx context.Context, id string, in models.TermInput) (*models.Term, error) {
	return decodeInto[models.Term](ctx, t.c, &Request{Method: http.MethodPut, Endpoint: t.root + "/" + url.PathEscape(id), Body: in})
}

func (t termAPI) delete(ctx context.Context, id string) error {
	_, err := t.c.Delete(ctx, t.root+"/"+url.PathEscape(id))
	return err
}

func (c *HTTPClient) categories() termAPI { return termAPI{c: c, root: "/categories"} }
func (c *HTTPClient) tags() termAPI       { return termAPI{c: c, root: "/tags"} }

func (c *HTTPClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	return c.categories().list(ctx)
}

func (c *HTTPClient) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return c.categories().get(ctx, id)
}

func (c *HTTPClient) CreateCategory(ctx context.Context, in models.TermInput) (*models.Category, error) {
	return c.categories().create(ctx, in)
}

func (c *HTTPClient) UpdateCategory(ctx context.Context, id string, in models.TermInput) (*models.Category, error) {
	return c.categories().update(ctx, id, in)
}

func (c *HTTPClient) DeleteCategory(ctx context.Context, id string) error {
	return c.categories().delete(ctx, id)
}

func (c *HTTPClient) ListTags(ctx context.Context) ([]models.Tag, error) {
	return c.tags().list(ctx)
}

func (c *HTTPClient) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	return c.tags().get(ctx, id)
}

func (c *HTTPClient) CreateTag(ctx context.Context, in models.TermInput) (*models.Tag, error) {
	return c.tags().create(ctx, in)
}

func (c *HTTPClient) UpdateTag(ctx context.Context, id string, in models.TermInput) (*models.Tag, error) {
	return c.tags().update(ctx, id, in)
}

func (c *HTTPClient) DeleteTag(ctx context.Context, id string) error {
	return c.tags().delete(ctx, id)
}
