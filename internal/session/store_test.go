package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"skill-hire/internal/domain/user"
)

type fakeCache struct {
	data    map[string][]byte
	failGet bool
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	if f.failGet {
		return false, errors.New("down")
	}
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func sampleSession() Session {
	return Session{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		RecordID: uuid.New(),
		Email:    "w@example.com",
		Role:     user.RoleWorker,
		IssuedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestCacheStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	c := newFakeCache()
	s := NewCacheStore(c)
	sess := sampleSession()

	require.NoError(t, s.Save(ctx, sess, time.Hour))
	got, err := s.Load(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, sess.RecordID, got.RecordID)
	require.True(t, got.HasRecord())

	require.NoError(t, s.Clear(ctx, sess.ID))
	_, err = s.Load(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCacheStore_FallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	c := newFakeCache()
	s := NewCacheStore(c)
	sess := sampleSession()
	require.NoError(t, s.Save(ctx, sess, time.Hour))

	c.failGet = true
	got, err := s.Load(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, sess.UserID, got.UserID)
}

func TestCacheStore_ClearOnOneInstanceLogsOutEverywhere(t *testing.T) {
	ctx := context.Background()
	shared := newFakeCache()
	a := NewCacheStore(shared)
	b := NewCacheStore(shared)
	sess := sampleSession()

	require.NoError(t, b.Save(ctx, sess, time.Hour))
	_, err := a.Load(ctx, sess.ID)
	require.NoError(t, err)

	require.NoError(t, a.Clear(ctx, sess.ID))
	_, err = b.Load(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.Zero(t, b.memory.Len())

	// b's mirror was dropped on the miss, so an outage does not revive it.
	shared.failGet = true
	_, err = b.Load(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SaveSweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Save(ctx, sampleSession(), time.Minute))
	}
	require.Equal(t, 5, m.Len())

	now = now.Add(2 * time.Minute)
	fresh := sampleSession()
	require.NoError(t, m.Save(ctx, fresh, time.Minute))
	require.Equal(t, 1, m.Len())

	_, err := m.Load(ctx, fresh.ID)
	require.NoError(t, err)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	sess := sampleSession()
	require.NoError(t, m.Save(ctx, sess, time.Minute))

	now = now.Add(2 * time.Minute)
	_, err := m.Load(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	sess := sampleSession()
	got, ok := FromContext(WithContext(context.Background(), sess))
	require.True(t, ok)
	require.Equal(t, sess.ID, got.ID)
}
