package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "load", RetryConfig{MaxAttempts: 4, InitialDelay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	sentinel := errors.New("down")
	err := Retry(context.Background(), "load", RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestRetryPermanent(t *testing.T) {
	calls := 0
	sentinel := errors.New("bad query")
	err := Retry(context.Background(), "load", RetryConfig{MaxAttempts: 5, InitialDelay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return Permanent(sentinel)
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, "load", RetryConfig{MaxAttempts: 3, InitialDelay: time.Hour}, func(ctx context.Context) error {
		return errors.New("fail")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker("redis", 2, time.Minute)
	now := time.Now()
	cb.now = func() time.Time { return now }
	fail := errors.New("timeout")

	assert.ErrorIs(t, cb.Execute(func() error { return fail }), fail)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return fail }), fail)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerProbeFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("redis", 1, time.Second)
	now := time.Now()
	cb.now = func() time.Time { return now }
	fail := errors.New("timeout")

	cb.Execute(func() error { return fail })
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(2 * time.Second)
	cb.Execute(func() error { return fail })
	assert.Equal(t, StateOpen, cb.State())
	assert.Equal(t, "open", cb.State().String())
}
