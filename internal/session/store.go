package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const keyPrefix = "session:"

type jsonCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CacheStore keeps sessions in Redis and mirrors them in memory. Redis is
// authoritative: a clean miss means the session is gone (for example logged
// out on another instance) and the mirror is only read while Redis errors.
type CacheStore struct {
	cache  jsonCache
	memory *MemoryStore
}

func NewCacheStore(c jsonCache) *CacheStore {
	return &CacheStore{cache: c, memory: NewMemoryStore()}
}

func (s *CacheStore) Save(ctx context.Context, sess Session, ttl time.Duration) error {
	_ = s.memory.Save(ctx, sess, ttl)
	return s.cache.SetJSON(ctx, keyPrefix+sess.ID.String(), sess, ttl)
}

func (s *CacheStore) Load(ctx context.Context, id uuid.UUID) (Session, error) {
	var sess Session
	hit, err := s.cache.GetJSON(ctx, keyPrefix+id.String(), &sess)
	if err != nil {
		return s.memory.Load(ctx, id)
	}
	if !hit {
		_ = s.memory.Clear(ctx, id)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *CacheStore) Clear(ctx context.Context, id uuid.UUID) error {
	_ = s.memory.Clear(ctx, id)
	return s.cache.Delete(ctx, keyPrefix+id.String())
}

type memoryEntry struct {
	sess    Session
	expires time.Time
}

const sweepEvery = time.Minute

type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[uuid.UUID]memoryEntry{}, now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, sess Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if now.After(m.nextSweep) {
		m.sweepLocked(now)
		m.nextSweep = now.Add(sweepEvery)
	}
	e := memoryEntry{sess: sess}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	m.entries[sess.ID] = e
	return nil
}

func (m *MemoryStore) sweepLocked(now time.Time) {
	for id, e := range m.entries {
		if !e.expires.IsZero() && now.After(e.expires) {
			delete(m.entries, id)
		}
	}
}

// Len reports how many entries are held, expired ones included until swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryStore) Load(_ context.Context, id uuid.UUID) (Session, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrNotFound
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return Session{}, ErrNotFound
	}
	return e.sess, nil
}

func (m *MemoryStore) Clear(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
