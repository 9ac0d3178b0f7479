package adminfeed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"skill-hire/internal/domain/notification"
	"skill-hire/internal/pkg/logger"
	"skill-hire/internal/realtime"
	"skill-hire/internal/usecase/feed"
)

const tableAdminNotifications = "admin_notifications"

var (
	ErrInvalidStatus        = errors.New("invalid status")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInternal             = errors.New("internal error")
)

type Notifications interface {
	ListAll(ctx context.Context) ([]notification.AdminNotification, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status notification.AdminStatus) (bool, error)
	CountByStatus(ctx context.Context) (map[notification.AdminStatus]int, error)
}

type Service struct {
	notifications Notifications
	broker        *realtime.Broker
	logger        logrus.FieldLogger
}

func NewService(n Notifications, broker *realtime.Broker, log logrus.FieldLogger) *Service {
	return &Service{notifications: n, broker: broker, logger: logger.OrDefault(log)}
}

func (s *Service) ListAll(ctx context.Context) ([]notification.AdminNotification, error) {
	items, err := s.notifications.ListAll(ctx)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return items, nil
}

func (s *Service) Counts(ctx context.Context) (map[notification.AdminStatus]int, error) {
	counts, err := s.notifications.CountByStatus(ctx)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return counts, nil
}

// SetStatus marks a notification approved or rejected. It is bookkeeping for
// the admin and touches no other row.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	st := notification.AdminStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != notification.AdminStatusApproved && st != notification.AdminStatusRejected {
		return ErrInvalidStatus
	}

	ok, err := s.notifications.UpdateStatus(ctx, id, st)
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	s.logger.WithFields(logrus.Fields{"notification_id": id, "status": st}).Info("admin notification status set")
	return nil
}

// Subscribe delivers every admin notification inserted from now on.
func (s *Service) Subscribe(fn func(notification.AdminNotification)) *realtime.Subscription {
	return s.broker.Subscribe(tableAdminNotifications, nil, func(e realtime.Event) {
		var n notification.AdminNotification
		if err := e.Decode(&n); err != nil {
			s.logger.WithError(err).Warn("undecodable admin notification event")
			return
		}
		fn(n)
	})
}

func NewView() *feed.LiveView[notification.AdminNotification] {
	return feed.NewLiveView(
		func(n notification.AdminNotification) uuid.UUID { return n.ID },
		func(n notification.AdminNotification) time.Time { return n.CreatedAt },
	)
}
