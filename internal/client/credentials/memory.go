package credentials

import (
	"context"
	"sync"
)

// MemoryStore is an in-process origin storage shared by any number of Tabs.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	tabs   map[*Tab]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}, tabs: map[*Tab]struct{}{}}
}

// Tab returns a new context over the shared storage.
func (m *MemoryStore) Tab() *Tab {
	t := &Tab{origin: m}
	m.mu.Lock()
	m.tabs[t] = struct{}{}
	m.mu.Unlock()
	return t
}

func (m *MemoryStore) write(from *Tab, next map[string]string) {
	m.mu.Lock()
	changes := diff(m.values, next)
	m.values = next
	others := make([]*Tab, 0, len(m.tabs))
	for t := range m.tabs {
		if t != from {
			others = append(others, t)
		}
	}
	m.mu.Unlock()

	for _, t := range others {
		t.subs.notify(changes)
	}
}

// Tab is one client context of a MemoryStore. It implements Store and
// Notifier; a Tab is notified of writes made by other Tabs only.
type Tab struct {
	origin *MemoryStore
	subs   subscribers
}

func (t *Tab) Get(context.Context) (Credential, error) {
	t.origin.mu.Lock()
	defer t.origin.mu.Unlock()
	return fromValues(t.origin.values), nil
}

func (t *Tab) Set(_ context.Context, c Credential) error {
	t.origin.write(t, toValues(c))
	return nil
}

func (t *Tab) Clear(context.Context) error {
	t.origin.write(t, map[string]string{})
	return nil
}

func (t *Tab) Subscribe(fn func(Change)) func() {
	return t.subs.add(fn)
}

// Close detaches the tab from the shared storage.
func (t *Tab) Close() {
	t.origin.mu.Lock()
	delete(t.origin.tabs, t)
	t.origin.mu.Unlock()
}
