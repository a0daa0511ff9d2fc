package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/artfolio/internal/client/config"
	"github.com/dmitrijs2005/artfolio/internal/client/services"
	"github.com/dmitrijs2005/artfolio/internal/models"
)

func stubInputs(t *testing.T, answers []string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		i++
		return answers[i-1], nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAuth struct {
	state services.State
	nav   services.Navigator

	loginEmail, loginPass string
	loginErr              error
	signup                models.RegisterRequest
	logoutCalled          bool
	refreshOK             bool
}

func (f *fakeAuth) Mount(context.Context)     {}
func (f *fakeAuth) CheckAuth(context.Context) {}
func (f *fakeAuth) Login(_ context.Context, email, password string) error {
	f.loginEmail, f.loginPass = email, password
	return f.loginErr
}
func (f *fakeAuth) Signup(_ context.Context, req models.RegisterRequest) error {
	f.signup = req
	return nil
}
func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	return nil
}
func (f *fakeAuth) RefreshToken(context.Context) bool { return f.refreshOK }
func (f *fakeAuth) RequireAuth(fn func()) bool {
	if !f.state.IsAuthenticated {
		if f.nav != nil {
			f.nav.Navigate(services.DefaultRoutes().Login)
		}
		return false
	}
	fn()
	return true
}
func (f *fakeAuth) State() services.State                              { return f.state }
func (f *fakeAuth) Subscribe(func(services.State)) func()              { return func() {} }
func (f *fakeAuth) RunAutoRefresh(context.Context, time.Duration, time.Duration) {}
func (f *fakeAuth) Close()                                             {}

var bob = &models.UserProfile{ID: "u1", Username: "bob", Email: "bob@example.com", FullName: "Bob Ross", FollowersCount: 3}

func newTestApp(auth *fakeAuth, gallery services.GalleryService) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	a := &App{
		config:  cfg,
		auth:    auth,
		gallery: gallery,
		reader:  bufio.NewReader(strings.NewReader("")),
		out:     &out,
	}
	auth.nav = a
	return a, &out
}

func TestLogin_PassesCredentials(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(f, nil)
	stubInputs(t, []string{"bob@example.com"}, []byte("secret"))

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "bob@example.com", f.loginEmail)
	assert.Equal(t, "secret", f.loginPass)
}

func TestLogin_ErrorPropagates(t *testing.T) {
	f := &fakeAuth{loginErr: errors.New("Invalid credentials")}
	a, _ := newTestApp(f, nil)
	stubInputs(t, []string{"bob@example.com"}, []byte("wrong"))

	assert.EqualError(t, a.Login(context.Background()), "Invalid credentials")
}

func TestRegister_BuildsRequest(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(f, nil)
	stubInputs(t, []string{"bob@example.com", "Bob Ross", "artist"}, []byte("secret"))

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, models.RegisterRequest{
		Email:    "bob@example.com",
		Password: "secret",
		FullName: "Bob Ross",
		Role:     "artist",
	}, f.signup)
}

func TestWhoami(t *testing.T) {
	t.Run("anonymous navigates to login", func(t *testing.T) {
		a, out := newTestApp(&fakeAuth{}, nil)

		require.NoError(t, a.Whoami(context.Background()))
		assert.Contains(t, out.String(), "You need to log in first")
	})

	t.Run("authenticated prints profile", func(t *testing.T) {
		f := &fakeAuth{state: services.State{IsAuthenticated: true, User: bob}}
		a, out := newTestApp(f, nil)

		require.NoError(t, a.Whoami(context.Background()))
		assert.Contains(t, out.String(), "Bob Ross <bob@example.com>")
		assert.Contains(t, out.String(), "followers: 3")
	})
}

func TestRefresh(t *testing.T) {
	f := &fakeAuth{state: services.State{IsAuthenticated: true, User: bob}}
	a, out := newTestApp(f, nil)

	assert.ErrorIs(t, a.Refresh(context.Background()), errRefreshFailed)

	f.refreshOK = true
	require.NoError(t, a.Refresh(context.Background()))
	assert.Contains(t, out.String(), "Token refreshed.")
}

func TestLogout(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(f, nil)

	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, f.logoutCalled)
}

func TestNavigateAndStatus(t *testing.T) {
	f := &fakeAuth{state: services.State{IsAuthenticated: true, User: bob}}
	a, out := newTestApp(f, nil)

	a.Navigate("/profile")
	a.Navigate("/")
	assert.Equal(t, "Welcome, Bob Ross!\nLogged out.\n", out.String())
	assert.Equal(t, "bob@example.com", a.status())

	f.state = services.State{Loading: true, Phase: services.PhaseChecking}
	assert.Equal(t, "checking", a.status())

	f.state = services.State{Phase: services.PhaseAnonymous}
	assert.Equal(t, "anonymous", a.status())
}

func TestAnnounce_ForeignChangesOnly(t *testing.T) {
	f := &fakeAuth{}
	a, out := newTestApp(f, nil)

	a.setBusy(true)
	a.announce(services.State{IsAuthenticated: true, User: bob})
	assert.Empty(t, out.String(), "own commands are not announced")
	f.state = services.State{IsAuthenticated: true, User: bob}
	a.setBusy(false)

	a.announce(services.State{Loading: true})
	assert.Empty(t, out.String())

	a.announce(services.State{Phase: services.PhaseAnonymous})
	assert.Contains(t, out.String(), "[session] signed out elsewhere")

	out.Reset()
	a.announce(services.State{Phase: services.PhaseAnonymous})
	assert.Empty(t, out.String(), "unchanged state is not repeated")

	a.announce(services.State{IsAuthenticated: true, User: bob})
	assert.Contains(t, out.String(), "[session] signed in as bob@example.com elsewhere")
}
