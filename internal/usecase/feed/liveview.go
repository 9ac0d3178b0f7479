package feed

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LiveView is an in-memory notification list fed by an initial snapshot and
// by pushes. Items are unique by id and kept newest first.
type LiveView[T any] struct {
	mu        sync.Mutex
	items     []T
	index     map[uuid.UUID]int
	id        func(T) uuid.UUID
	createdAt func(T) time.Time
}

func NewLiveView[T any](id func(T) uuid.UUID, createdAt func(T) time.Time) *LiveView[T] {
	return &LiveView[T]{index: map[uuid.UUID]int{}, id: id, createdAt: createdAt}
}

// Merge inserts or replaces items and reports how many were new.
func (v *LiveView[T]) Merge(items ...T) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	added := 0
	for _, it := range items {
		k := v.id(it)
		if i, ok := v.index[k]; ok {
			v.items[i] = it
			continue
		}
		v.items = append(v.items, it)
		v.index[k] = len(v.items) - 1
		added++
	}
	v.sortLocked()
	return added
}

func (v *LiveView[T]) sortLocked() {
	sort.SliceStable(v.items, func(i, j int) bool {
		ti, tj := v.createdAt(v.items[i]), v.createdAt(v.items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return v.id(v.items[i]).String() > v.id(v.items[j]).String()
	})
	for i, it := range v.items {
		v.index[v.id(it)] = i
	}
}

// Items returns a copy of the current list.
func (v *LiveView[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}

func (v *LiveView[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}
