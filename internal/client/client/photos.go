package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/artfolio/internal/models"
)

func photoPath(id string, rest ...string) string {
	return "/photos/" + url.PathEscape(id) + strings.Join(rest, "")
}

func (c *HTTPClient) ListPhotos(ctx context.Context, p models.ListParams) (*models.Page[models.Photo], error) {
	return decodeInto[models.Page[models.Photo]](ctx, c, &Request{Method: http.MethodGet, Endpoint: "/photos", Query: p.Query()})
}

func (c *HTTPClient) GetPhoto(ctx context.Context, id string) (*models.Photo, error) {
	return decodeInto[models.Photo](ctx, c, &Request{Method: http.MethodGet, Endpoint: photoPath(id)})
}

func (c *HTTPClient) CreatePhoto(ctx context.Context, in models.PhotoInput) (*models.Photo, error) {
	return decodeInto[models.Photo](ctx, c, &Request{Method: http.MethodPost, Endpoint: "/photos", Body: in})
}

func (c *HTTPClient) UpdatePhoto(ctx context.Context, id string, in models.PhotoInput) (*models.Photo, error) {
	return decodeInto[models.Photo](ctx, c, &Request{Method: http.MethodPut, Endpoint: photoPath(id), Body: in})
}

func (c *HTTPClient) DeletePhoto(ctx context.Context, id string) error {
	_, err := c.Delete(ctx, photoPath(id))
	return err
}

// UploadPhoto posts the image together with its metadata as one multipart
// form. List fields are sent JSON-encoded.
func (c *HTTPClient) UploadPhoto(ctx context.Context, in models.PhotoInput, filename string, content []byte) (*models.Photo, error) {
	fields := map[string]string{"title": in.Title}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.IsPublic != nil {
		if *in.IsPublic {
			fields["is_public"] = "true"
		} else {
			fields["is_public"] = "false"
		}
	}
	if len(in.CategoryIDs) > 0 {
		b, _ := json.Marshal(in.CategoryIDs)
		fields["category_ids"] = string(b)
	}
	if len(in.TagIDs) > 0 {
		b, _ := json.Marshal(in.TagIDs)
		fields["tag_ids"] = string(b)
	}

	body := &Multipart{
		Fields: fields,
		Files:  []FilePart{{Field: "image", Filename: filename, Content: content}},
	}
	return decodeInto[models.Photo](ctx, c, &Request{Method: http.MethodPost, Endpoint: "/photos/upload", Body: body})
}

func (c *HTTPClient) LikePhoto(ctx context.Context, id string) (*models.LikeResponse, error) {
	return decodeInto[models.LikeResponse](ctx, c, &Request{Method: http.MethodPost, Endpoint: photoPath(id, "/like")})
}

func (c *HTTPClient) UnlikePhoto(ctx context.Context, id string) (*models.LikeResponse, error) {
	return decodeInto[models.LikeResponse](ctx, c, &Request{Method: http.MethodDelete, Endpoint: photoPath(id, "/like")})
}

func (c *HTTPClient) DownloadPhoto(ctx context.Context, id, size string) (*models.DownloadLink, error) {
	q := Query{"size": nil}
	if size != "" {
		q["size"] = size
	}
	return decodeInto[models.DownloadLink](ctx, c, &Request{Method: http.MethodGet, Endpoint: photoPath(id, "/download"), Query: q})
}
