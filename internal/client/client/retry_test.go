package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	var delays []time.Duration
	p := RetryPolicy{
		MaxRetries: 5,
		BaseDelay:  time.Second,
		Sleep: func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	}

	attempts := 0
	got, err := Retry(context.Background(), p, func(_ context.Context, attempt int) (string, error) {
		attempts++
		assert.Equal(t, attempts, attempt)
		if attempt < 4 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}, delays)
}

func TestRetry_ReturnsLastError(t *testing.T) {
	p := RetryPolicy{MaxRetries: 2, Sleep: func(context.Context, time.Duration) error { return nil }}

	attempts := 0
	_, err := Retry(context.Background(), p, func(_ context.Context, attempt int) (int, error) {
		attempts++
		return 0, errors.New("fail " + string(rune('0'+attempt)))
	})

	assert.EqualError(t, err, "fail 3")
	assert.Equal(t, 3, attempts)
}

func TestRetry_NonRetryableStopsImmediately(t *testing.T) {
	permanent := errors.New("bad request")
	p := RetryPolicy{
		MaxRetries: 3,
		Retryable:  func(err error) bool { return !errors.Is(err, permanent) },
		Sleep:      func(context.Context, time.Duration) error { t.Fatal("must not sleep"); return nil },
	}

	attempts := 0
	_, err := Retry(context.Background(), p, func(context.Context, int) (int, error) {
		attempts++
		return 0, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}

func TestRetry_ContextCancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Hour}

	attempts := 0
	_, err := Retry(ctx, p, func(context.Context, int) (int, error) {
		attempts++
		cancel()
		return 0, errors.New("flaky")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{BaseDelay: 1000 * time.Millisecond}
	assert.Equal(t, 1000*time.Millisecond, p.Delay(1))
	assert.Equal(t, 3000*time.Millisecond, p.Delay(3))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", &NetworkError{Err: errors.New("refused")}, true},
		{"timeout", &TimeoutError{Timeout: time.Second}, true},
		{"server error", &APIError{Status: 500}, true},
		{"rate limited", &ValidationError{Status: 429}, true},
		{"bad request", &ValidationError{Status: 400}, false},
		{"not found", &APIError{Status: 404}, false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
