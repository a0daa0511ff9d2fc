package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/server/auth"
	"github.com/dmitrijs2005/artfolio/internal/server/media"
)

type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	requestIDKey ctxKey = "requestID"
)

// userID returns the authenticated caller, or "" for anonymous requests.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger tags the request with an id, records the request origin for
// media links and logs the outcome.
func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(common.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		ctx = media.WithBaseURL(ctx, origin(r))

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		args := []any{
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Error(ctx, "request", args...)
		} else {
			s.logger.Info(ctx, "request", args...)
		}
	})
}

// authenticate resolves the bearer token into a user id. With strict set a
// token that does not verify is rejected; otherwise the request simply
// proceeds anonymously.
func (s *HTTPServer) authenticate(strict bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeader)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			accessToken, ok := strings.CutPrefix(header, common.BearerPrefix)
			if !ok || accessToken == "" {
				if strict {
					writeDetail(w, http.StatusUnauthorized, "Authorization header must contain two space-delimited values")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
			if err != nil {
				if strict {
					writeJSON(w, http.StatusUnauthorized, map[string]string{
						"detail": "Given token not valid for any token type",
						"code":   "token_not_valid",
					})
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAuth turns away anonymous callers.
func requireAuth(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userID(r) == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		h(w, r)
	}
}

// origin is the scheme and host the client used to reach us.
func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}
