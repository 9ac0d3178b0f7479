package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"skill-hire/internal/database"
	"skill-hire/internal/pkg/logger"
)

type listenerSource interface {
	NewListener(ctx context.Context) (database.Listener, error)
}

// PGListener feeds the broker from Postgres NOTIFY payloads. The connection is
// re-established with exponential backoff until ctx is done.
type PGListener struct {
	Source  listenerSource
	Channel string
	Broker  *Broker
	Logger  logrus.FieldLogger

	MinBackoff time.Duration
	MaxBackoff time.Duration
}

func (l *PGListener) Run(ctx context.Context) error {
	log := logger.OrDefault(l.Logger).WithField("channel", l.Channel)
	minB, maxB := l.MinBackoff, l.MaxBackoff
	if minB <= 0 {
		minB = 500 * time.Millisecond
	}
	if maxB < minB {
		maxB = 30 * time.Second
	}

	backoff := minB
	for {
		delivered, err := l.listenOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if delivered > 0 {
			backoff = minB
		}
		log.WithError(err).WithField("retry_in", backoff.String()).Warn("realtime listener disconnected")

		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
		backoff *= 2
		if backoff > maxB {
			backoff = maxB
		}
	}
}

func (l *PGListener) listenOnce(ctx context.Context) (int, error) {
	if l.Source == nil {
		return 0, errors.New("no listener source")
	}
	ln, err := l.Source.NewListener(ctx)
	if err != nil {
		return 0, err
	}
	defer ln.Close()

	if err := ln.Listen(ctx, l.Channel); err != nil {
		return 0, err
	}

	delivered := 0
	for {
		n, err := ln.WaitForNotification(ctx)
		if err != nil {
			return delivered, err
		}
		e, err := DecodeEvent(n.Payload)
		if err != nil {
			logger.OrDefault(l.Logger).WithError(err).Warn("dropping change event")
			continue
		}
		l.Broker.Publish(e)
		delivered++
	}
}
