package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

func newToken() string {
	return uuid.NewString()
}

// LocalLocker is the in-process fallback used when Redis is down. It only
// guards against duplicates arriving at the same instance.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]localLock
	now  func() time.Time
}

type localLock struct {
	token   string
	expires time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: map[string]localLock{}, now: time.Now}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return "", false, nil
	}
	token := newToken()
	l.held[key] = localLock{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (l *LocalLocker) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.held[key]; ok && cur.token == token {
		delete(l.held, key)
	}
	return nil
}

// FallbackLocker prefers Redis and drops to the local locker whenever Redis
// reports itself unavailable.
type FallbackLocker struct {
	Redis *Redis
	Local *LocalLocker
}

func NewFallbackLocker(r *Redis) *FallbackLocker {
	return &FallbackLocker{Redis: r, Local: NewLocalLocker()}
}

func (f *FallbackLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token, ok, err := f.Redis.Acquire(ctx, key, ttl)
	if err == nil {
		return token, ok, nil
	}
	token, ok, lerr := f.Local.Acquire(ctx, key, ttl)
	if lerr != nil {
		return "", false, errors.Join(err, lerr)
	}
	return "local:" + token, ok, nil
}

func (f *FallbackLocker) Release(ctx context.Context, key, token string) error {
	if len(token) > 6 && token[:6] == "local:" {
		return f.Local.Release(ctx, key, token[6:])
	}
	return f.Redis.Release(ctx, key, token)
}
