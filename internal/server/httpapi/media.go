package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/server/media"
)

// serveMedia streams an object kept by the database media backend. A
// ?download=name query makes browsers save it under that name.
func (s *HTTPServer) serveMedia(w http.ResponseWriter, r *http.Request) {
	key, ok := media.CleanKey(strings.TrimPrefix(r.URL.Path, media.MediaPrefix))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	contentType, data, err := s.media.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("ETag", etag(data))
	if name := r.URL.Query().Get("download"); name != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	}
	http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(data))
}

// etag fingerprints an object so clients can revalidate cached copies.
func etag(data []byte) string {
	hasher := blake3.New()
	_, _ = hasher.Write(data)
	return fmt.Sprintf(`"%x"`, hasher.Sum(nil)[:16])
}
