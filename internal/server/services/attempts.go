package services

import (
	"strings"
	"sync"
	"time"
)

// maxAttemptEntries bounds the number of emails tracked at once.
const maxAttemptEntries = 10000

// loginAttempts counts failed logins per email. A counter expires ttl after
// its last failure. Expired counters are swept at most once per ttl, and
// the oldest counter is evicted when the table is full.
type loginAttempts struct {
	mu        sync.Mutex
	ttl       time.Duration
	limit     int
	now       func() time.Time
	lastSweep time.Time
	entries   map[string]attemptEntry
}

type attemptEntry struct {
	count   int
	expires time.Time
}

func newLoginAttempts(ttl time.Duration) *loginAttempts {
	return &loginAttempts{ttl: ttl, limit: maxAttemptEntries, now: time.Now, entries: map[string]attemptEntry{}}
}

func (a *loginAttempts) key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Count returns the live failure count for email.
func (a *loginAttempts) Count(email string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	k := a.key(email)
	e, ok := a.entries[k]
	if !ok {
		return 0
	}
	if a.now().After(e.expires) {
		delete(a.entries, k)
		return 0
	}
	return e.count
}

func (a *loginAttempts) Fail(email string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if now.Sub(a.lastSweep) >= a.ttl {
		a.sweep(now)
	}

	k := a.key(email)
	e, ok := a.entries[k]
	if !ok && len(a.entries) >= a.limit {
		a.evictOldest()
	}
	if now.After(e.expires) {
		e.count = 0
	}
	e.count++
	e.expires = now.Add(a.ttl)
	a.entries[k] = e
}

func (a *loginAttempts) sweep(now time.Time) {
	for k, e := range a.entries {
		if now.After(e.expires) {
			delete(a.entries, k)
		}
	}
	a.lastSweep = now
}

func (a *loginAttempts) evictOldest() {
	var oldest string
	var at time.Time
	first := true
	for k, e := range a.entries {
		if first || e.expires.Before(at) {
			oldest, at, first = k, e.expires, false
		}
	}
	delete(a.entries, oldest)
}

func (a *loginAttempts) Reset(email string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.entries, a.key(email))
}
