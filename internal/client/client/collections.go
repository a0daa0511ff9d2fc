package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/artfolio/internal/models"
)

func collectionPath(id string, rest ...string) string {
	return "/collections/" + url.PathEscape(id) + strings.Join(rest, "")
}

func (c *HTTPClient) ListCollections(ctx context.Context, p models.ListParams) (*models.Page[models.Collection], error) {
	return decodeInto[models.Page[models.Collection]](ctx, c, &Request{Method: http.MethodGet, Endpoint: "/collections", Query: p.Query()})
}

func (c *HTTPClient) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	return decodeInto[models.Collection](ctx, c, &Request{Method: http.MethodGet, Endpoint: collectionPath(id)})
}

func (c *HTTPClient) CreateCollection(ctx context.Context, in models.CollectionInput) (*models.Collection, error) {
	return decodeInto[models.Collection](ctx, c, &Request{Method: http.MethodPost, Endpoint: "/collections", Body: in})
}

func (c *HTTPClient) UpdateCollection(ctx context.Context, id string, in models.CollectionInput) (*models.Collection, error) {
	return decodeInto[models.Collection](ctx, c, &Request{Method: http.MethodPut, Endpoint: collectionPath(id), Body: in})
}

func (c *HTTPClient) DeleteCollection(ctx context.Context, id string) error {
	_, err := c.Delete(ctx, collectionPath(id))
	return err
}

func (c *HTTPClient) LikeCollection(ctx context.Context, id string) (*models.LikeResponse, error) {
	return decodeInto[models.LikeResponse](ctx, c, &Request{Method: http.MethodPost, Endpoint: collectionPath(id, "/like")})
}

func (c *HTTPClient) UnlikeCollection(ctx context.Context, id string) (*models.LikeResponse, error) {
	return decodeInto[models.LikeResponse](ctx, c, &Request{Method: http.MethodDelete, Endpoint: collectionPath(id, "/like")})
}

func (c *HTTPClient) AddCollectionPhoto(ctx context.Context, id, photoID string) (*models.Collection, error) {
	return decodeInto[models.Collection](ctx, c, &Request{
		Method:   http.MethodPost,
		Endpoint: collectionPath(id, "/photos"),
		Body:     models.AddPhotoRequest{PhotoID: photoID},
	})
}

func (c *HTTPClient) RemoveCollectionPhoto(ctx context.Context, id, photoID string) error {
	_, err := c.Delete(ctx, collectionPath(id, "/photos/", url.PathEscape(photoID)))
	return err
}
