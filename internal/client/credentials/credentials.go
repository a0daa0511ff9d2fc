// Package credentials stores the bearer credential of the artfolio client
// and reports changes made to it by other client contexts.
//
// A Store is the persistent slot read before every request. A Notifier
// delivers a Change whenever another context (another process sharing the
// same database, or another Tab of a MemoryStore) writes or removes a key;
// a context never receives its own writes.
package credentials

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/artfolio/internal/common"
)

// Credential is the token pair issued by the API. An empty Token means no
// credential is stored.
type Credential struct {
	Token   string
	Refresh string
}

func (c Credential) Empty() bool { return c.Token == "" }

type Store interface {
	Get(ctx context.Context) (Credential, error)
	Set(ctx context.Context, c Credential) error
	Clear(ctx context.Context) error
}

// Change mirrors a storage event: Key changed from OldValue to NewValue.
// An empty NewValue means the key was removed.
type Change struct {
	Key      string
	OldValue string
	NewValue string
}

type Notifier interface {
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn func(Change)) (unsubscribe func())
}

func toValues(c Credential) map[string]string {
	v := map[string]string{}
	if c.Token != "" {
		v[common.CredentialKey] = c.Token
	}
	if c.Refresh != "" {
		v[common.RefreshKey] = c.Refresh
	}
	return v
}

func fromValues(v map[string]string) Credential {
	return Credential{Token: v[common.CredentialKey], Refresh: v[common.RefreshKey]}
}

// diff lists the changes between two value sets, token key first.
func diff(prev, next map[string]string) []Change {
	var out []Change
	for _, k := range []string{common.CredentialKey, common.RefreshKey} {
		if prev[k] != next[k] {
			out = append(out, Change{Key: k, OldValue: prev[k], NewValue: next[k]})
		}
	}
	return out
}

// subscribers is a small registry shared by the Notifier implementations.
type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Change)
}

func (s *subscribers) add(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = map[int]func(Change){}
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.fns, id)
		})
	}
}

func (s *subscribers) notify(changes []Change) {
	if len(changes) == 0 {
		return
	}
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, ch := range changes {
		for _, fn := range fns {
			fn(ch)
		}
	}
}
