package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidResponse = errors.New("invalid response body")
)

// genericMessage is reported when a failed response carries nothing usable.
const genericMessage = "An error occurred"

// ValidationError is a non-2xx response whose body was a non-empty JSON
// object. Fields holds every top-level key verbatim, so field-level
// messages such as {"email": ["This field is required."]} survive intact.
type ValidationError struct {
	Status int
	Fields map[string]json.RawMessage
}

func (e *ValidationError) Error() string {
	if msg := e.Message(); msg != "" {
		return msg
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Field(k), " ")))
	}
	return strings.Join(parts, "; ")
}

// Field returns the messages reported for name. A single string is returned
// as a one-element slice; other JSON values are returned as raw text.
func (e *ValidationError) Field(name string) []string {
	raw, ok := e.Fields[name]
	if !ok {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}
	return []string{string(raw)}
}

// Message returns the envelope message of the payload, if any: the first of
// "error", "detail", "message" or "non_field_errors" that is present.
func (e *ValidationError) Message() string {
	for _, k := range []string{"error", "detail", "message", "non_field_errors"} {
		if msgs := e.Field(k); len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

func (e *ValidationError) Is(target error) bool {
	return statusIs(e.Status, target)
}

// APIError is a non-2xx response without a structured payload.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return statusIs(e.Status, target)
}

// NetworkError means the server could not be reached at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrUnavailable }

// TimeoutError means a single attempt exceeded its deadline.
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

func (e *TimeoutError) Is(target error) bool { return target == ErrUnavailable }

func statusIs(status int, target error) bool {
	switch target {
	case ErrUnauthorized:
		return status == http.StatusUnauthorized || status == http.StatusForbidden
	case ErrNotFound:
		return status == http.StatusNotFound
	case ErrUnavailable:
		return status >= http.StatusInternalServerError
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Status
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// IsRetryable reports whether err is a transient failure worth another
// attempt: connectivity, per-attempt timeouts, 429 and 5xx responses.
func IsRetryable(err error) bool {
	var ne *NetworkError
	var te *TimeoutError
	if errors.As(err, &ne) || errors.As(err, &te) {
		return true
	}
	status := StatusCode(err)
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// Describe renders err as a message fit for an end user.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	var ae *APIError
	var ne *NetworkError
	var te *TimeoutError

	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &ae):
		return ae.Message
	case errors.As(err, &ne):
		return "Network error: unable to reach the server"
	case errors.As(err, &te):
		return "Request timed out, please try again"
	default:
		return err.Error()
	}
}
