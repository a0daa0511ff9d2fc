package credentials

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrijs2005/artfolio/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/logging"
)

var credentialKeys = []string{common.CredentialKey, common.RefreshKey}

// SharedStore keeps the credential in the metadata table of the local
// database. Every client process opening the same file shares it. Run
// watches the file and notifies subscribers of writes made by other
// processes; writes made through this SharedStore are not reported.
type SharedStore struct {
	db       *sql.DB
	path     string
	interval time.Duration
	logger   logging.Logger

	mu   sync.Mutex
	last map[string]string
	subs subscribers
}

// NewSharedStore wraps db. path is the database file to watch (empty for
// in-memory databases) and interval the polling period used alongside, or
// instead of, file events.
func NewSharedStore(db *sql.DB, path string, interval time.Duration, logger logging.Logger) *SharedStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SharedStore{
		db:       db,
		path:     path,
		interval: interval,
		logger:   logger.With("component", "credentials"),
		last:     map[string]string{},
	}
}

func (s *SharedStore) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *SharedStore) Get(ctx context.Context) (Credential, error) {
	values, err := s.repo(s.db).GetMany(ctx, credentialKeys...)
	if err != nil {
		return Credential{}, err
	}
	return fromValues(values), nil
}

func (s *SharedStore) Set(ctx context.Context, c Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, common.CredentialKey, c.Token); err != nil {
			return err
		}
		if c.Refresh == "" {
			return r.Delete(ctx, common.RefreshKey)
		}
		return r.Set(ctx, common.RefreshKey, c.Refresh)
	})
	if err != nil {
		return err
	}
	s.last = toValues(c)
	return nil
}

func (s *SharedStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo(s.db).Delete(ctx, credentialKeys...); err != nil {
		return err
	}
	s.last = map[string]string{}
	return nil
}

func (s *SharedStore) Subscribe(fn func(Change)) func() {
	return s.subs.add(fn)
}

// Poll re-reads the stored values and notifies subscribers of any
// difference from what this store last saw.
func (s *SharedStore) Poll(ctx context.Context) error {
	s.mu.Lock()
	values, err := s.repo(s.db).GetMany(ctx, credentialKeys...)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	changes := diff(s.last, values)
	s.last = values
	s.mu.Unlock()

	s.subs.notify(changes)
	return nil
}

// Prime records the current stored values as seen, without notifying.
func (s *SharedStore) Prime(ctx context.Context) error {
	values, err := s.repo(s.db).GetMany(ctx, credentialKeys...)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.last = values
	s.mu.Unlock()
	return nil
}

// Run watches for foreign writes until ctx is done. File events are used
// when the database lives on disk; a ticker covers platforms or
// filesystems where events are unreliable.
func (s *SharedStore) Run(ctx context.Context) error {
	if err := s.Prime(ctx); err != nil {
		return err
	}

	var events <-chan fsnotify.Event
	var errs <-chan error
	if s.path != "" && s.path != ":memory:" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			s.logger.Warn(ctx, "file watcher unavailable, polling only", "error", err)
		} else {
			defer w.Close()
			if err := w.Add(filepath.Dir(s.path)); err != nil {
				s.logger.Warn(ctx, "cannot watch database directory, polling only", "path", s.path, "error", err)
			} else {
				events, errs = w.Events, w.Errors
			}
		}
	}

	interval := s.interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	base := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), base) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			s.poll(ctx)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Warn(ctx, "file watcher error", "error", err)
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *SharedStore) poll(ctx context.Context) {
	if err := s.Poll(ctx); err != nil && ctx.Err() == nil {
		s.logger.Warn(ctx, "credential poll failed", "error", err)
	}
}
