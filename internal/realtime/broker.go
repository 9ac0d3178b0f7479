package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"skill-hire/internal/pkg/logger"
)

// Filter is a single-column equality predicate, e.g. worker_id = <id>.
type Filter struct {
	Column string
	Value  string
}

type Listener func(Event)

type subscriber struct {
	id       uint64
	table    string
	filter   *Filter
	fn       Listener
	canceled atomic.Bool
}

// Subscription is the handle returned by Subscribe. Cancel stops delivery and
// may be called any number of times.
type Subscription struct {
	broker *Broker
	sub    *subscriber
	once   sync.Once
}

func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.sub.canceled.Store(true)
		s.broker.remove(s.sub)
	})
}

// Broker fans inserted rows out to per-table listeners. It does not know
// where events come from.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]*subscriber
	nextID uint64
	logger logrus.FieldLogger
}

func NewBroker(log logrus.FieldLogger) *Broker {
	return &Broker{
		subs:   make(map[string]map[uint64]*subscriber),
		logger: logger.OrDefault(log),
	}
}

func (b *Broker) Subscribe(table string, filter *Filter, fn Listener) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s := &subscriber{id: b.nextID, table: table, filter: filter, fn: fn}
	if b.subs[table] == nil {
		b.subs[table] = make(map[uint64]*subscriber)
	}
	b.subs[table][s.id] = s

	return &Subscription{broker: b, sub: s}
}

func (b *Broker) remove(s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.subs[s.table]; ok {
		delete(m, s.id)
		if len(m) == 0 {
			delete(b.subs, s.table)
		}
	}
}

// Publish delivers e synchronously to every matching listener. Listeners run
// outside the broker lock so they may subscribe or cancel.
func (b *Broker) Publish(e Event) {
	b.mu.RLock()
	targets := make([]*subscriber, 0, len(b.subs[e.Table]))
	for _, s := range b.subs[e.Table] {
		if e.matches(s.filter) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range targets {
		if s.canceled.Load() {
			continue
		}
		b.deliver(s, e)
	}
}

func (b *Broker) deliver(s *subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(logrus.Fields{"table": e.Table, "subscriber": s.id, "panic": r}).
				Error("realtime listener panicked")
		}
	}()
	s.fn(e)
}

func (b *Broker) SubscriberCount(table string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[table])
}
