package realtime

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func mustEvent(t *testing.T, table string, row map[string]any) Event {
	t.Helper()
	e, err := NewEvent(table, row)
	require.NoError(t, err)
	return e
}

func TestBroker_FilterScopesDelivery(t *testing.T) {
	log, _ := test.NewNullLogger()
	b := NewBroker(log)

	var mine, all []Event
	b.Subscribe("worker_notifications", &Filter{Column: "worker_id", Value: "w-1"}, func(e Event) { mine = append(mine, e) })
	b.Subscribe("worker_notifications", nil, func(e Event) { all = append(all, e) })

	b.Publish(mustEvent(t, "worker_notifications", map[string]any{"id": "n-1", "worker_id": "w-1"}))
	b.Publish(mustEvent(t, "worker_notifications", map[string]any{"id": "n-2", "worker_id": "w-2"}))
	b.Publish(mustEvent(t, "admin_notifications", map[string]any{"id": "a-1"}))

	require.Len(t, mine, 1)
	require.Len(t, all, 2)
	v, ok := mine[0].Field("id")
	require.True(t, ok)
	require.Equal(t, "n-1", v)
}

func TestBroker_CancelIsIdempotent(t *testing.T) {
	b := NewBroker(nil)
	calls := 0
	sub := b.Subscribe("admin_notifications", nil, func(Event) { calls++ })
	require.Equal(t, 1, b.SubscriberCount("admin_notifications"))

	sub.Cancel()
	sub.Cancel()
	require.Equal(t, 0, b.SubscriberCount("admin_notifications"))

	b.Publish(mustEvent(t, "admin_notifications", map[string]any{"id": "a-1"}))
	require.Zero(t, calls)
}

func TestBroker_ListenerMayCancelItself(t *testing.T) {
	b := NewBroker(nil)
	calls := 0
	var sub *Subscription
	sub = b.Subscribe("t", nil, func(Event) {
		calls++
		sub.Cancel()
	})

	b.Publish(mustEvent(t, "t", map[string]any{"id": 1}))
	b.Publish(mustEvent(t, "t", map[string]any{"id": 2}))
	require.Equal(t, 1, calls)
}

func TestBroker_PanickingListenerIsContained(t *testing.T) {
	log, hook := test.NewNullLogger()
	b := NewBroker(log)
	got := 0
	b.Subscribe("t", nil, func(Event) { panic("boom") })
	b.Subscribe("t", nil, func(Event) { got++ })

	require.NotPanics(t, func() {
		b.Publish(mustEvent(t, "t", map[string]any{"id": 1}))
	})
	require.Equal(t, 1, got)
	require.Equal(t, "realtime listener panicked", hook.LastEntry().Message)
}

func TestBroker_ConcurrentPublishAndCancel(t *testing.T) {
	b := NewBroker(nil)
	e := mustEvent(t, "t", map[string]any{"id": 1})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		sub := b.Subscribe("t", nil, func(Event) {})
		go func() {
			defer wg.Done()
			b.Publish(e)
		}()
		go func() {
			defer wg.Done()
			sub.Cancel()
		}()
	}
	wg.Wait()
	require.Equal(t, 0, b.SubscriberCount("t"))
}

func TestDecodeEvent(t *testing.T) {
	e, err := DecodeEvent(`{"table":"worker_notifications","row":{"id":"n-1","worker_id":"w-9","action_required":true}}`)
	require.NoError(t, err)
	require.Equal(t, "worker_notifications", e.Table)
	require.True(t, e.matches(&Filter{Column: "worker_id", Value: "w-9"}))
	require.False(t, e.matches(&Filter{Column: "job_id", Value: "w-9"}))

	var row struct {
		ID string `json:"id"`
	}
	require.NoError(t, e.Decode(&row))
	require.Equal(t, "n-1", row.ID)

	_, err = DecodeEvent(`not json`)
	require.ErrorIs(t, err, ErrMalformedEvent)
	_, err = DecodeEvent(`{"row":{}}`)
	require.ErrorIs(t, err, ErrMalformedEvent)
}
