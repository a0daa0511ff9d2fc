package media

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repomanager"
)

// DBStorage keeps objects in the media_objects table.
type DBStorage struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publicURL   string
}

// NewDBStorage returns a DBStorage. publicURL prefixes the links it hands
// out; when empty the origin stored by WithBaseURL is used, and failing
// that the links are host-relative.
func NewDBStorage(db *sql.DB, m repomanager.RepositoryManager, publicURL string) *DBStorage {
	return &DBStorage{db: db, repomanager: m, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *DBStorage) Put(ctx context.Context, key, contentType string, data []byte) error {
	return s.repomanager.MediaObjects(s.db).Put(ctx, key, contentType, data)
}

func (s *DBStorage) Delete(ctx context.Context, key string) error {
	return s.repomanager.MediaObjects(s.db).Delete(ctx, key)
}

// Open returns the stored object for key.
func (s *DBStorage) Open(ctx context.Context, key string) (string, []byte, error) {
	return s.repomanager.MediaObjects(s.db).Get(ctx, key)
}

func (s *DBStorage) URL(ctx context.Context, key, filename string) (string, error) {
	base := s.publicURL
	if base == "" {
		base = baseURL(ctx)
	}
	u := base + MediaPrefix + escapeKey(key)
	if filename != "" {
		u += "?" + url.Values{"download": {filename}}.Encode()
	}
	return u, nil
}
