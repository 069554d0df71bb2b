package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, max int) (*SlidingWindowLimiter, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewSlidingWindowLimiter(client, Config{Name: "leads", RateLimit: RateLimit{Window: time.Hour, Max: max}})
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestAllowWithinWindow(t *testing.T) {
	l, _ := newLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "770000000")
		require.NoError(t, err)
		assert.True(t, ok, "hit %d", i+1)
	}

	ok, err := l.Allow(ctx, "770000000")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "780000000")
	require.NoError(t, err)
	assert.True(t, ok, "other identifiers have their own window")
}

func TestAllowAfterWindowSlides(t *testing.T) {
	l, clock := newLimiter(t, 1)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "770000000")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(ctx, "770000000")
	require.NoError(t, err)
	assert.False(t, ok)

	*clock = clock.Add(2 * time.Hour)
	ok, err = l.Allow(ctx, "770000000")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllowDisabled(t *testing.T) {
	l, _ := newLimiter(t, 0)
	ok, err := l.Allow(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)
}
