package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skill-hire/internal/database"
)

type fakeListener struct {
	ch       chan database.Notification
	channels []string
	closed   bool
	mu       sync.Mutex
}

func (f *fakeListener) Listen(_ context.Context, channel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, channel)
	return nil
}

func (f *fakeListener) WaitForNotification(ctx context.Context) (database.Notification, error) {
	select {
	case <-ctx.Done():
		return database.Notification{}, ctx.Err()
	case n, ok := <-f.ch:
		if !ok {
			return database.Notification{}, errors.New("connection closed")
		}
		return n, nil
	}
}

func (f *fakeListener) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

type fakeSource struct {
	mu    sync.Mutex
	calls int
	fail  int
	ln    *fakeListener
}

func (s *fakeSource) NewListener(context.Context) (database.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.fail {
		return nil, errors.New("dial failed")
	}
	return s.ln, nil
}

func TestPGListener_PublishesDecodedEvents(t *testing.T) {
	ln := &fakeListener{ch: make(chan database.Notification, 4)}
	src := &fakeSource{fail: 1, ln: ln}
	b := NewBroker(nil)

	got := make(chan Event, 4)
	b.Subscribe("admin_notifications", nil, func(e Event) { got <- e })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := &PGListener{Source: src, Channel: "row_inserted", Broker: b, MinBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	ln.ch <- database.Notification{Channel: "row_inserted", Payload: `garbage`}
	ln.ch <- database.Notification{Channel: "row_inserted", Payload: `{"table":"admin_notifications","row":{"id":"a-1"}}`}

	select {
	case e := <-got:
		v, _ := e.Field("id")
		require.Equal(t, "a-1", v)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}

	src.mu.Lock()
	require.GreaterOrEqual(t, src.calls, 2)
	src.mu.Unlock()
	ln.mu.Lock()
	require.Contains(t, ln.channels, "row_inserted")
	ln.mu.Unlock()
}
