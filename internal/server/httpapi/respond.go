package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/artfolio/internal/common"
	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/server/services"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.MessageResponse{Message: msg})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeDetail(w, http.StatusNotFound, "The requested endpoint was not found.")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", r.Method))
}

// writeError maps service and repository errors onto the API's status codes
// and bodies. Anything unrecognised is logged and reported as a 500.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fields services.FieldErrors
		bad    *services.BadRequestError
	)
	switch {
	case errors.As(err, &fields):
		writeJSON(w, http.StatusBadRequest, fields)
	case errors.As(err, &bad):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": bad.Message})
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, common.ErrorForbidden):
		writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, common.ErrorInvalidCredential):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	case errors.Is(err, common.ErrorTooManyAttempts):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many login attempts. Please try again later."})
	case errors.Is(err, common.ErrorInactiveAccount):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Account is inactive. Please activate your account."})
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
	default:
		s.logger.Error(r.Context(), "request failed", "request_id", requestID(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched so that the service reports the missing fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return &services.BadRequestError{Message: "JSON parse error - " + err.Error()}
	}
	return nil
}

// listParams reads the common list filters from the query string.
func listParams(r *http.Request) (api.ListParams, services.Paging, error) {
	q := r.URL.Query()
	p := api.ListParams{
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		User:     q.Get("user"),
	}

	var err error
	if v := q.Get("page"); v != "" {
		if p.Page, err = strconv.Atoi(v); err != nil {
			return p, services.Paging{}, services.ErrInvalidPage
		}
	}
	if v := q.Get("page_size"); v != "" {
		if p.PageSize, err = strconv.Atoi(v); err != nil {
			p.PageSize = 0
		}
	}

	paging, err := services.NewPaging(p.Page, p.PageSize)
	return p, paging, err
}

// pageOf wraps one page of results with absolute links to its neighbours.
func pageOf[T any](r *http.Request, pg services.Paging, total int, results []T) api.Page[T] {
	if results == nil {
		results = []T{}
	}
	out := api.Page[T]{Count: total, Results: results}
	if pg.HasNext(total) {
		next := pageURL(r, pg.Page+1)
		out.Next = &next
	}
	if pg.Page > 1 {
		prev := pageURL(r, pg.Page-1)
		out.Previous = &prev
	}
	return out
}

func pageURL(r *http.Request, page int) string {
	u := url.URL{Path: r.URL.Path}
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return origin(r) + u.String()
}
