package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWindow = 168 * time.Hour

func newTestLimiter(max int) (*Limiter, *time.Time) {
	current := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(NewMemoryStore(), max, testWindow)
	limiter.now = func() time.Time { return current }
	return limiter, &current
}

func TestLimiterCheck(t *testing.T) {
	t.Run("counts down to zero then denies", func(t *testing.T) {
		limiter, _ := newTestLimiter(5)

		for i := 0; i < 5; i++ {
			result, err := limiter.Check("1.2.3.4")
			require.NoError(t, err)
			assert.True(t, result.Allowed)
			assert.Equal(t, 4-i, result.Remaining)
		}

		result, err := limiter.Check("1.2.3.4")
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Zero(t, result.Remaining)
	})

	t.Run("denied requests consume nothing", func(t *testing.T) {
		limiter, clock := newTestLimiter(1)

		first, err := limiter.Check("1.2.3.4")
		require.NoError(t, err)
		require.True(t, first.Allowed)

		for i := 0; i < 3; i++ {
			denied, err := limiter.Check("1.2.3.4")
			require.NoError(t, err)
			assert.False(t, denied.Allowed)
			// ResetTime stays pinned to the first request's window.
			assert.Equal(t, first.ResetTime, denied.ResetTime)
		}

		// Once the window expires, quota is whole again.
		*clock = clock.Add(testWindow + time.Second)
		again, err := limiter.Check("1.2.3.4")
		require.NoError(t, err)
		assert.True(t, again.Allowed)
	})

	t.Run("identities are independent", func(t *testing.T) {
		limiter, _ := newTestLimiter(1)

		first, err := limiter.Check("1.2.3.4")
		require.NoError(t, err)
		require.True(t, first.Allowed)

		other, err := limiter.Check("5.6.7.8")
		require.NoError(t, err)
		assert.True(t, other.Allowed)
	})

	t.Run("window rolls over after expiry", func(t *testing.T) {
		limiter, clock := newTestLimiter(5)

		first, err := limiter.Check("1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, clock.Add(testWindow), first.ResetTime)

		*clock = clock.Add(testWindow + time.Minute)
		second, err := limiter.Check("1.2.3.4")
		require.NoError(t, err)
		assert.True(t, second.Allowed)
		assert.Equal(t, 4, second.Remaining)
		assert.Equal(t, clock.Add(testWindow), second.ResetTime)
	})

	t.Run("reset clears one identity", func(t *testing.T) {
		limiter, _ := newTestLimiter(1)

		_, err := limiter.Check("1.2.3.4")
		require.NoError(t, err)
		require.NoError(t, limiter.Reset("1.2.3.4"))

		result, err := limiter.Check("1.2.3.4")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})
}

func TestLimiterSweepAndStats(t *testing.T) {
	limiter, clock := newTestLimiter(5)

	_, err := limiter.Check("1.2.3.4")
	require.NoError(t, err)
	_, err = limiter.Check("5.6.7.8")
	require.NoError(t, err)

	stats, err := limiter.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalIdentities)
	assert.Equal(t, 2, stats.ActiveIdentities)
	assert.Equal(t, 2, stats.StoreSize)

	// Expire the first window, then add a fresh identity.
	*clock = clock.Add(testWindow + time.Hour)
	_, err = limiter.Check("9.9.9.9")
	require.NoError(t, err)

	stats, err = limiter.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalIdentities)
	assert.Equal(t, 1, stats.ActiveIdentities)

	removed, err := limiter.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	stats, err = limiter.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalIdentities)
	assert.Equal(t, 1, stats.ActiveIdentities)
}
