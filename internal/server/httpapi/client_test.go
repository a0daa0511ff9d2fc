package httpapi

import (
	"context"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/artfolio/internal/client/client"
	"github.com/dmitrijs2005/artfolio/internal/client/credentials"
	session "github.com/dmitrijs2005/artfolio/internal/client/services"
	api "github.com/dmitrijs2005/artfolio/internal/models"
)

// The client pipeline and session controller against the real handlers.

func newTestClient(a *apiTest, creds client.CredentialReader) *client.HTTPClient {
	return client.NewHTTPClient(client.Config{
		BaseURL:    a.srv.URL + "/api",
		Timeout:    5 * time.Second,
		MaxRetries: 0,
	}, creds, nil)
}

func TestClient_SessionAcrossTabs(t *testing.T) {
	a := newAPITest(t)
	ctx := context.Background()

	origin := credentials.NewMemoryStore()
	tabA, tabB := origin.Tab(), origin.Tab()
	defer tabA.Close()
	defer tabB.Close()

	var route string
	authA := session.NewAuthService(newTestClient(a, tabA), tabA, tabA,
		session.NavigatorFunc(func(r string) { route = r }), session.DefaultRoutes(), nil)
	defer authA.Close()
	authB := session.NewAuthService(newTestClient(a, tabB), tabB, tabB, nil, session.DefaultRoutes(), nil)
	defer authB.Close()

	authB.Mount(ctx)
	require.False(t, authB.State().IsAuthenticated)

	require.NoError(t, authA.Signup(ctx, api.RegisterRequest{Email: "liv@example.com", Password: "password1", FullName: "Liv"}))
	st := authA.State()
	require.True(t, st.IsAuthenticated)
	assert.Equal(t, "liv@example.com", st.User.Email)
	assert.Equal(t, "/profile", route)

	require.Eventually(t, func() bool { return authB.State().IsAuthenticated }, 2*time.Second, 10*time.Millisecond,
		"the other tab picks up the stored credential")

	before, err := tabA.Get(ctx)
	require.NoError(t, err)
	require.True(t, authA.RefreshToken(ctx))
	after, err := tabA.Get(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before.Refresh, after.Refresh)

	require.NoError(t, authA.Logout(ctx))
	assert.False(t, authA.State().IsAuthenticated)
	require.Eventually(t, func() bool { return !authB.State().IsAuthenticated }, 2*time.Second, 10*time.Millisecond)

	// the revoked refresh token is gone server-side
	_, err = newTestClient(a, nil).RefreshToken(ctx, after.Refresh)
	require.Error(t, err)

	err = authA.Login(ctx, "liv@example.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", client.Describe(err))
	assert.Equal(t, "Invalid credentials", authA.State().Error)
}

func TestClient_UploadAndDownload(t *testing.T) {
	a := newAPITest(t)
	ctx := context.Background()

	tab := credentials.NewMemoryStore().Tab()
	defer tab.Close()
	c := newTestClient(a, tab)

	resp, err := c.Register(ctx, api.RegisterRequest{Email: "max@example.com", Password: "password1", FullName: "Max"})
	require.NoError(t, err)
	require.NoError(t, tab.Set(ctx, credentials.Credential{Token: resp.Token, Refresh: resp.Refresh}))

	src := filepath.Join(t.TempDir(), "harbour.png")
	require.NoError(t, os.WriteFile(src, pngBytes(t, 1200, 800), 0o600))

	gallery := session.NewGalleryService(c, a.srv.URL+"/api", nil)
	photo, err := gallery.Upload(ctx, src, api.PhotoInput{})
	require.NoError(t, err)
	assert.Equal(t, "harbour", photo.Title)
	assert.Equal(t, 1200, photo.Width)

	page, err := gallery.Photos(ctx, api.ListParams{Search: "harb"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, photo.ID, page.Results[0].ID)

	path, err := gallery.Download(ctx, photo.ID, api.SizeMedium, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "harbour_medium.jpg", filepath.Base(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, cfg.Width, 1200)

	got, err := c.GetPhoto(ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DownloadCount)

	_, err = c.UploadPhoto(ctx, api.PhotoInput{Title: "bad"}, "notes.txt", []byte("not an image"))
	var ve *client.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "image")
}
