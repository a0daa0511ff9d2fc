package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/logging"
	"github.com/dmitrijs2005/artfolio/internal/server/auth"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// helper to build server
func newBareServer(secret string) *HTTPServer {
	return &HTTPServer{logger: nopLogger{}, jwtSecret: []byte(secret)}
}

func serveWith(mw func(http.Handler) http.Handler, header string) (*httptest.ResponseRecorder, string, bool) {
	var (
		gotUser string
		called  bool
	)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUser = userID(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/photos", nil)
	if header != "" {
		req.Header.Set(common.AuthorizationHeader, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, gotUser, called
}

func TestAuthenticate_NoHeaderIsAnonymous(t *testing.T) {
	s := newBareServer("secret")

	rec, user, called := serveWith(s.authenticate(true), "")
	if !called {
		t.Fatal("handler was not called")
	}
	if user != "" {
		t.Fatalf("expected anonymous request, got user %q", user)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	s := newBareServer("secret")

	token, err := auth.GenerateToken("user-123", []byte("secret"), time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, user, called := serveWith(s.authenticate(true), common.BearerPrefix+token)
	if !called {
		t.Fatal("handler was not called")
	}
	if user != "user-123" {
		t.Fatalf("expected userID in context, got %q", user)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	s := newBareServer("secret")

	rec, _, called := serveWith(s.authenticate(true), common.BearerPrefix+"not-a-valid-jwt")
	if called {
		t.Fatal("handler should not be called with an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec, user, called := serveWith(s.authenticate(false), common.BearerPrefix+"not-a-valid-jwt")
	if !called || user != "" {
		t.Fatalf("lenient mode should pass through anonymously, called=%v user=%q", called, user)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestAuthenticate_ExpiredAndForeignTokens(t *testing.T) {
	s := newBareServer("secret")

	expired, err := auth.GenerateToken("user-123", []byte("secret"), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	foreign, err := auth.GenerateToken("user-123", []byte("other"), time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	for name, tok := range map[string]string{"expired": expired, "foreign": foreign} {
		rec, _, called := serveWith(s.authenticate(true), common.BearerPrefix+tok)
		if called || rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without calling handler, got %d (called=%v)", name, rec.Code, called)
		}
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	s := newBareServer("secret")

	rec, _, called := serveWith(s.authenticate(true), "Token abc")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a non-bearer scheme, got %d (called=%v)", rec.Code, called)
	}
}

func TestRequireAuth(t *testing.T) {
	called := false
	h := requireAuth(func(http.ResponseWriter, *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/photos", nil))
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous caller, got %d (called=%v)", rec.Code, called)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/photos", nil)
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "u1"))
	h(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("handler was not called for an authenticated caller")
	}
}

func TestOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://gallery.local:8000/api/photos", nil)
	if got := origin(req); got != "http://gallery.local:8000" {
		t.Fatalf("origin = %q", got)
	}
	req.Header.Set("X-Forwarded-Proto", "https")
	if got := origin(req); got != "https://gallery.local:8000" {
		t.Fatalf("origin behind proxy = %q", got)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewHTTPServer("127.0.0.1:0", nopLogger{}, Services{}, nil, "secret")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewHTTPServer("127.0.0.1:99999", nopLogger{}, Services{}, nil, "secret")

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error for an invalid port")
	}
}
