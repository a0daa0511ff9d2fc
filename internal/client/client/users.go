package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/artfolio/internal/models"
)

func (c *HTTPClient) Profile(ctx context.Context) (*models.UserProfile, error) {
	return decodeInto[models.UserProfile](ctx, c, &Request{Method: http.MethodGet, Endpoint: "/users/profile/"})
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error) {
	return decodeInto[models.UserProfile](ctx, c, &Request{Method: http.MethodPut, Endpoint: "/users/profile/", Body: upd})
}

func (c *HTTPClient) UploadAvatar(ctx context.Context, filename string, content []byte) (*models.UserProfile, error) {
	body := &Multipart{Files: []FilePart{{Field: "profile_picture", Filename: filename, Content: content}}}
	return decodeInto[models.UserProfile](ctx, c, &Request{Method: http.MethodPost, Endpoint: "/users/avatar/", Body: body})
}

func (c *HTTPClient) Follow(ctx context.Context, userID string) error {
	_, err := c.Post(ctx, "/users/"+url.PathEscape(userID)+"/follow/", nil)
	return err
}

func (c *HTTPClient) Unfollow(ctx context.Context, userID string) error {
	_, err := c.Delete(ctx, "/users/"+url.PathEscape(userID)+"/follow/")
	return err
}

func (c *HTTPClient) Followers(ctx context.Context, userID string) ([]models.UserProfile, error) {
	return c.userList(ctx, "/users/"+url.PathEscape(userID)+"/followers/")
}

func (c *HTTPClient) Following(ctx context.Context, userID string) ([]models.UserProfile, error) {
	return c.userList(ctx, "/users/"+url.PathEscape(userID)+"/following/")
}

func (c *HTTPClient) userList(ctx context.Context, endpoint string) ([]models.UserProfile, error) {
	out, err := decodeInto[[]models.UserProfile](ctx, c, &Request{Method: http.MethodGet, Endpoint: endpoint})
	if err != nil {
		return nil, err
	}
	return *out, nil
}
