// File: internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(window time.Duration, max int) *FixedWindowLimiter {
	l := NewFixedWindowLimiter(&Config{
		Window:        window,
		MaxEvents:     max,
		CleanupPeriod: time.Hour, // keep the sweeper out of the way
	})
	return l
}

func TestAllowWithinLimit(t *testing.T) {
	l := newTestLimiter(time.Minute, 3)
	defer l.Close()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("user-1")
		require.True(t, allowed, "event %d should be allowed", i+1)
		assert.Equal(t, 3-(i+1), info.Remaining)
	}
}

func TestDenyOverLimit(t *testing.T) {
	l := newTestLimiter(time.Minute, 2)
	defer l.Close()

	l.Allow("user-1")
	l.Allow("user-1")

	allowed, info := l.Allow("user-1")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)

	// Denied events must not consume budget for the next window.
	allowed, _ = l.Allow("user-1")
	assert.False(t, allowed)
}

func TestIndependentIdentifiers(t *testing.T) {
	l := newTestLimiter(time.Minute, 1)
	defer l.Close()

	allowed, _ := l.Allow("user-1")
	require.True(t, allowed)
	allowed, _ = l.Allow("user-1")
	require.False(t, allowed)

	// A different user has its own window.
	allowed, _ = l.Allow("user-2")
	assert.True(t, allowed)
}

func TestWindowExpiryResetsCount(t *testing.T) {
	l := newTestLimiter(20*time.Millisecond, 1)
	defer l.Close()

	allowed, _ := l.Allow("user-1")
	require.True(t, allowed)
	allowed, _ = l.Allow("user-1")
	require.False(t, allowed)

	time.Sleep(30 * time.Millisecond)

	allowed, info := l.Allow("user-1")
	assert.True(t, allowed, "a fresh window should admit again")
	assert.Equal(t, 0, info.Remaining)
}

func TestSweepRemovesExpiredWindows(t *testing.T) {
	l := newTestLimiter(10*time.Millisecond, 5)
	defer l.Close()

	l.Allow("user-1")
	l.Allow("user-2")
	require.Equal(t, 2, l.Size())

	time.Sleep(20 * time.Millisecond)
	l.Sweep()
	assert.Equal(t, 0, l.Size())
}

func TestSweepKeepsLiveWindows(t *testing.T) {
	l := newTestLimiter(time.Minute, 5)
	defer l.Close()

	l.Allow("user-1")
	l.Sweep()
	assert.Equal(t, 1, l.Size())
}

func TestCloseIsIdempotent(t *testing.T) {
	l := newTestLimiter(time.Minute, 1)
	l.Close()
	l.Close() // must not panic
}

func TestMaxEvents(t *testing.T) {
	l := newTestLimiter(time.Minute, 42)
	defer l.Close()
	assert.Equal(t, 42, l.MaxEvents())
}
