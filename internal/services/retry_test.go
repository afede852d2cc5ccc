package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRetrier() (*retrier, *[]time.Duration) {
	var sleeps []time.Duration
	r := newRetrier()
	r.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return r, &sleeps
}

func TestRetrierDo(t *testing.T) {
	ctx := context.Background()

	t.Run("success on first attempt", func(t *testing.T) {
		r, sleeps := newTestRetrier()
		calls := 0

		err := r.Do(ctx, func() error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, *sleeps)
	})

	t.Run("transient failures back off exponentially", func(t *testing.T) {
		r, sleeps := newTestRetrier()
		calls := 0

		err := r.Do(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("connection reset by peer")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{1000 * time.Millisecond, 2000 * time.Millisecond}, *sleeps)
	})

	t.Run("exhausted attempts surface the last error", func(t *testing.T) {
		r, sleeps := newTestRetrier()
		calls := 0
		boom := errors.New("temporary upstream glitch")

		err := r.Do(ctx, func() error {
			calls++
			return boom
		})

		require.ErrorIs(t, err, boom)
		assert.Equal(t, 4, calls)
		assert.Equal(t, []time.Duration{
			1000 * time.Millisecond,
			2000 * time.Millisecond,
			4000 * time.Millisecond,
		}, *sleeps)
	})

	t.Run("quota errors fail fast without sleeping", func(t *testing.T) {
		r, sleeps := newTestRetrier()
		calls := 0
		quotaErr := errors.New("You exceeded your current quota")

		err := r.Do(ctx, func() error {
			calls++
			return quotaErr
		})

		require.ErrorIs(t, err, quotaErr)
		assert.Equal(t, 1, calls)
		assert.Empty(t, *sleeps)
	})

	t.Run("authentication errors fail fast", func(t *testing.T) {
		r, _ := newTestRetrier()
		calls := 0

		err := r.Do(ctx, func() error {
			calls++
			return errors.New("Incorrect API key provided")
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context aborts the backoff sleep", func(t *testing.T) {
		r := newRetrier()
		r.sleep = sleepContext

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0

		err := r.Do(cancelled, func() error {
			calls++
			return errors.New("transient")
		})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestIsNonRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"quota", errors.New("insufficient_quota: billing hard limit"), true},
		{"api key", errors.New("invalid API KEY"), true},
		{"invalid request", errors.New("invalid_request error"), true},
		{"timeout", errors.New("request timed out"), false},
		{"server error", errors.New("internal server error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNonRetryable(tt.err))
		})
	}
}
