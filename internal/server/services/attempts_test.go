package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginAttempts(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a := newLoginAttempts(time.Hour)
	a.now = func() time.Time { return now }

	a.Fail("Ann@x.io")
	a.Fail(" ann@x.io ")
	assert.Equal(t, 2, a.Count("ann@x.io"))

	now = now.Add(59 * time.Minute)
	a.Fail("ann@x.io")
	assert.Equal(t, 3, a.Count("ann@x.io"), "each failure extends the window")

	now = now.Add(61 * time.Minute)
	assert.Zero(t, a.Count("ann@x.io"), "expired")

	a.Fail("ann@x.io")
	a.Reset("ANN@x.io")
	assert.Zero(t, a.Count("ann@x.io"))
}

func TestLoginAttempts_Bounded(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		emails int
		gap    time.Duration
		want   int
	}{
		{name: "expired counters are swept", limit: 100, emails: 50, gap: 2 * time.Hour, want: 1},
		{name: "live counters are kept", limit: 100, emails: 50, gap: 10 * time.Minute, want: 51},
		{name: "full table evicts the oldest", limit: 10, emails: 10, gap: time.Minute, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
			a := newLoginAttempts(time.Hour)
			a.limit = tt.limit
			a.now = func() time.Time { return now }

			for i := 0; i < tt.emails; i++ {
				a.Fail(fmt.Sprintf("user%d@x.io", i))
				now = now.Add(time.Second)
			}
			now = now.Add(tt.gap)
			a.Fail("late@x.io")

			assert.Len(t, a.entries, tt.want)
			assert.Equal(t, 1, a.Count("late@x.io"))
		})
	}
}

func TestLoginAttempts_EvictsOldestWhenFull(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a := newLoginAttempts(time.Hour)
	a.limit = 2
	a.now = func() time.Time { return now }

	a.Fail("first@x.io")
	now = now.Add(time.Minute)
	a.Fail("second@x.io")
	a.Fail("second@x.io")
	now = now.Add(time.Minute)
	a.Fail("third@x.io")

	assert.Zero(t, a.Count("first@x.io"))
	assert.Equal(t, 2, a.Count("second@x.io"))
	assert.Equal(t, 1, a.Count("third@x.io"))
}
