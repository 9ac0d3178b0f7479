package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalLocker_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	tok, ok, err := l.Acquire(ctx, "respond:1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.Acquire(ctx, "respond:1", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, l.Release(ctx, "respond:1", "someone-else"))
	_, ok, _ = l.Acquire(ctx, "respond:1", time.Minute)
	require.False(t, ok)

	require.NoError(t, l.Release(ctx, "respond:1", tok))
	_, ok, _ = l.Acquire(ctx, "respond:1", time.Minute)
	require.True(t, ok)
}

func TestLocalLocker_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.now = func() time.Time { return now }

	_, ok, _ := l.Acquire(ctx, "k", time.Second)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = l.Acquire(ctx, "k", time.Second)
	require.True(t, ok)
}

func TestFallbackLocker_UsesLocalWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	f := NewFallbackLocker(&Redis{})

	tok, ok, err := f.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, tok, "local:")

	_, ok, _ = f.Acquire(ctx, "k", time.Minute)
	require.False(t, ok)

	require.NoError(t, f.Release(ctx, "k", tok))
	_, ok, _ = f.Acquire(ctx, "k", time.Minute)
	require.True(t, ok)
}

func TestRedis_UnavailableBypasses(t *testing.T) {
	ctx := context.Background()
	r := &Redis{}

	var out map[string]int
	hit, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, hit)
	require.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, 0))
	require.NoError(t, r.Delete(ctx, "k"))
	require.ErrorIs(t, r.Ping(ctx), ErrUnavailable)
	require.Nil(t, r.Client())
	require.False(t, r.Available())

	var none *Redis
	require.False(t, none.Available())
}
