package credentials

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeLog struct {
	mu      sync.Mutex
	changes []Change
}

func (l *changeLog) record(c Change) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, c)
}

func (l *changeLog) snapshot() []Change {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Change(nil), l.changes...)
}

func TestTab_SharesStorage(t *testing.T) {
	ctx := context.Background()
	origin := NewMemoryStore()
	a, b := origin.Tab(), origin.Tab()

	require.NoError(t, a.Set(ctx, Credential{Token: "T", Refresh: "R"}))

	got, err := b.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Credential{Token: "T", Refresh: "R"}, got)

	require.NoError(t, b.Clear(ctx))
	got, err = a.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestTab_NotifiesOtherTabsOnly(t *testing.T) {
	ctx := context.Background()
	origin := NewMemoryStore()
	a, b := origin.Tab(), origin.Tab()

	var seenA, seenB changeLog
	a.Subscribe(seenA.record)
	b.Subscribe(seenB.record)

	require.NoError(t, a.Set(ctx, Credential{Token: "T1"}))
	require.NoError(t, a.Set(ctx, Credential{Token: "T1"}))
	require.NoError(t, a.Clear(ctx))

	assert.Empty(t, seenA.snapshot())
	assert.Equal(t, []Change{
		{Key: "token", OldValue: "", NewValue: "T1"},
		{Key: "token", OldValue: "T1", NewValue: ""},
	}, seenB.snapshot())
}

func TestTab_UnsubscribeAndClose(t *testing.T) {
	ctx := context.Background()
	origin := NewMemoryStore()
	a, b, c := origin.Tab(), origin.Tab(), origin.Tab()

	var seenB, seenC changeLog
	unsubscribe := b.Subscribe(seenB.record)
	c.Subscribe(seenC.record)

	unsubscribe()
	unsubscribe()
	c.Close()

	require.NoError(t, a.Set(ctx, Credential{Token: "T"}))

	assert.Empty(t, seenB.snapshot())
	assert.Empty(t, seenC.snapshot())
}

func TestDiff_ReportsRefreshChanges(t *testing.T) {
	changes := diff(
		map[string]string{"token": "A", "refresh": "R1"},
		map[string]string{"token": "A", "refresh": "R2"},
	)
	assert.Equal(t, []Change{{Key: "refresh", OldValue: "R1", NewValue: "R2"}}, changes)
}
