package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/artfolio/internal/models"
)

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return decodeInto[models.AuthResponse](ctx, c, &Request{
		Method:   http.MethodPost,
		Endpoint: "/auth/login/",
		Body:     models.LoginRequest{Email: email, Password: password},
	})
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return decodeInto[models.AuthResponse](ctx, c, &Request{
		Method:   http.MethodPost,
		Endpoint: "/auth/register/",
		Body:     req,
	})
}

func (c *HTTPClient) RefreshToken(ctx context.Context, refresh string) (*models.TokenResponse, error) {
	return decodeInto[models.TokenResponse](ctx, c, &Request{
		Method:   http.MethodPost,
		Endpoint: "/auth/refresh-token/",
		Body:     models.TokenRequest{Refresh: refresh},
	})
}

// Logout blacklists the refresh token server-side. Single attempt: the
// caller clears local credentials regardless of the outcome.
func (c *HTTPClient) Logout(ctx context.Context, refresh string) error {
	_, err := c.Post(ctx, "/auth/logout/", models.TokenRequest{Refresh: refresh}, WithMaxRetries(0))
	return err
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error) {
	return decodeInto[models.MessageResponse](ctx, c, &Request{
		Method:   http.MethodPost,
		Endpoint: "/auth/forgot-password/",
		Body:     models.ForgotPasswordRequest{Email: email},
	})
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, password string) (*models.MessageResponse, error) {
	return decodeInto[models.MessageResponse](ctx, c, &Request{
		Method:   http.MethodPost,
		Endpoint: "/auth/reset-password/",
		Body:     models.ResetPasswordRequest{Token: token, Password: password},
	})
}
