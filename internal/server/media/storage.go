// Package media stores uploaded images and hands out links to them. Two
// backends exist: the server database, served back under /media/, and an
// S3-compatible bucket reached through presigned URLs.
package media

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// Storage is where image bytes live.
type Storage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error

	// URL returns a link that serves key. When filename is set the link asks
	// the browser to save the object under that name.
	URL(ctx context.Context, key, filename string) (string, error)
}

// MediaPrefix is the path under which DBStorage objects are served.
const MediaPrefix = "/media/"

type ctxKey string

const baseURLKey ctxKey = "baseURL"

// WithBaseURL records the origin of the current request. DBStorage uses it
// for links when it has no public URL of its own.
func WithBaseURL(ctx context.Context, base string) context.Context {
	return context.WithValue(ctx, baseURLKey, strings.TrimRight(base, "/"))
}

func baseURL(ctx context.Context) string {
	v, _ := ctx.Value(baseURLKey).(string)
	return v
}

// escapeKey escapes each segment of key for use in a URL path.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// CleanKey normalises a key taken from a request path and reports whether
// it stays inside the media namespace.
func CleanKey(raw string) (string, bool) {
	if raw == "" || strings.Contains(raw, "\\") {
		return "", false
	}
	key := path.Clean("/" + raw)[1:]
	if key == "" || key != strings.TrimPrefix(raw, "/") {
		return "", false
	}
	return key, true
}
