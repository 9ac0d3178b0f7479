package feed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"skill-hire/internal/domain/application"
	"skill-hire/internal/domain/job"
	"skill-hire/internal/domain/notification"
	"skill-hire/internal/pkg/logger"
	"skill-hire/internal/realtime"
	"skill-hire/internal/repository"
)

const EmptyMessage = "No job notifications yet"

const (
	DecisionAccept  = "accept"
	DecisionDecline = "decline"
)

const tableWorkerNotifications = "worker_notifications"

var (
	ErrInvalidDecision      = errors.New("invalid decision")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyResponded     = errors.New("notification already responded")
	ErrResponseInFlight     = errors.New("response already in progress")
	ErrInternal             = errors.New("internal error")
)

type Notifications interface {
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]notification.WorkerFeedItem, error)
	CountUnreadByWorker(ctx context.Context, workerID uuid.UUID) (int, error)
	UpdateResponse(ctx context.Context, id, jobID, workerID uuid.UUID, status notification.WorkerStatus) (bool, error)
	RevertResponse(ctx context.Context, id, workerID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (notification.WorkerNotification, error)
}

type Applications interface {
	Create(ctx context.Context, a application.Application) (application.Application, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]application.Application, error)
}

type Jobs interface {
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

type RespondInput struct {
	NotificationID uuid.UUID
	JobID          uuid.UUID
	WorkerID       uuid.UUID
	Decision       string
}

type RespondResult struct {
	NotificationID uuid.UUID                 `json:"notification_id"`
	Status         notification.WorkerStatus `json:"status"`
	Application    *application.Application  `json:"application,omitempty"`
}

type Service struct {
	notifications Notifications
	applications  Applications
	jobs          Jobs
	locker        Locker
	broker        *realtime.Broker
	lockTTL       time.Duration
	logger        logrus.FieldLogger
	now           func() time.Time
}

func NewService(n Notifications, a Applications, j Jobs, locker Locker, broker *realtime.Broker, log logrus.FieldLogger) *Service {
	return &Service{
		notifications: n,
		applications:  a,
		jobs:          j,
		locker:        locker,
		broker:        broker,
		lockTTL:       30 * time.Second,
		logger:        logger.OrDefault(log),
		now:           time.Now,
	}
}

// List returns the worker's notifications joined with their jobs, newest
// first. An empty slice is a valid feed.
func (s *Service) List(ctx context.Context, workerID uuid.UUID) ([]notification.WorkerFeedItem, error) {
	items, err := s.notifications.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return items, nil
}

func (s *Service) UnreadCount(ctx context.Context, workerID uuid.UUID) (int, error) {
	n, err := s.notifications.CountUnreadByWorker(ctx, workerID)
	if err != nil {
		return 0, errors.Join(ErrInternal, err)
	}
	return n, nil
}

func (s *Service) Applications(ctx context.Context, workerID uuid.UUID) ([]application.Application, error) {
	apps, err := s.applications.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return apps, nil
}

// Respond records an accept or decline. A notification can be answered once;
// an accept also files a pending application, and the notification is put
// back to unread if that insert fails.
func (s *Service) Respond(ctx context.Context, in RespondInput) (RespondResult, error) {
	status, err := decisionStatus(in.Decision)
	if err != nil {
		return RespondResult{}, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"notification_id": in.NotificationID,
		"job_id":          in.JobID,
		"worker_id":       in.WorkerID,
		"decision":        status,
	})

	release, err := s.lock(ctx, in.NotificationID, log)
	if err != nil {
		return RespondResult{}, err
	}
	defer release()

	ok, err := s.notifications.UpdateResponse(ctx, in.NotificationID, in.JobID, in.WorkerID, status)
	if err != nil {
		return RespondResult{}, errors.Join(ErrInternal, err)
	}
	if !ok {
		return RespondResult{}, s.explainNoop(ctx, in)
	}

	res := RespondResult{NotificationID: in.NotificationID, Status: status}
	if status != notification.WorkerStatusAccepted {
		log.Info("job declined")
		return res, nil
	}

	app, err := s.applications.Create(ctx, application.Application{
		JobID:     in.JobID,
		WorkerID:  in.WorkerID,
		Status:    application.StatusPending,
		AppliedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Info("application already on file")
			return res, nil
		}
		if rErr := s.notifications.RevertResponse(ctx, in.NotificationID, in.WorkerID); rErr != nil {
			log.WithError(rErr).WithField("cause", err.Error()).
				Error("notification accepted without application, revert failed")
		} else {
			log.WithError(err).Warn("application insert failed, notification reverted")
		}
		return RespondResult{}, errors.Join(ErrInternal, err)
	}

	log.WithField("application_id", app.ID).Info("job accepted")
	res.Application = &app
	return res, nil
}

func (s *Service) lock(ctx context.Context, id uuid.UUID, log logrus.FieldLogger) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	key := "feed:respond:" + id.String()
	token, ok, err := s.locker.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		log.WithError(err).Warn("respond lock unavailable, continuing without it")
		return func() {}, nil
	}
	if !ok {
		return nil, ErrResponseInFlight
	}
	return func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			log.WithError(err).Warn("respond lock release failed")
		}
	}, nil
}

func (s *Service) explainNoop(ctx context.Context, in RespondInput) error {
	n, err := s.notifications.GetByID(ctx, in.NotificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return errors.Join(ErrInternal, err)
	}
	if n.WorkerID != in.WorkerID || n.JobID != in.JobID {
		return ErrNotificationNotFound
	}
	return ErrAlreadyResponded
}

func decisionStatus(decision string) (notification.WorkerStatus, error) {
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case DecisionAccept, string(notification.WorkerStatusAccepted):
		return notification.WorkerStatusAccepted, nil
	case DecisionDecline, string(notification.WorkerStatusDeclined):
		return notification.WorkerStatusDeclined, nil
	default:
		return "", ErrInvalidDecision
	}
}

// Subscribe delivers notifications inserted for workerID, with their job
// attached when it can be loaded. Cancel the returned subscription to stop.
func (s *Service) Subscribe(workerID uuid.UUID, fn func(notification.WorkerFeedItem)) *realtime.Subscription {
	filter := &realtime.Filter{Column: "worker_id", Value: workerID.String()}
	return s.broker.Subscribe(tableWorkerNotifications, filter, func(e realtime.Event) {
		var n notification.WorkerNotification
		if err := e.Decode(&n); err != nil {
			s.logger.WithError(err).Warn("undecodable worker notification event")
			return
		}
		fn(s.hydrate(n))
	})
}

func (s *Service) hydrate(n notification.WorkerNotification) notification.WorkerFeedItem {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	item := notification.WorkerFeedItem{WorkerNotification: n}
	j, err := s.jobs.GetByID(ctx, n.JobID)
	if err != nil {
		s.logger.WithError(err).WithField("job_id", n.JobID).Warn("pushed notification without job")
		return item
	}
	item.Job = &j
	return item
}

// NewWorkerView returns a LiveView keyed by notification id.
func NewWorkerView() *LiveView[notification.WorkerFeedItem] {
	return NewLiveView(
		func(it notification.WorkerFeedItem) uuid.UUID { return it.ID },
		func(it notification.WorkerFeedItem) time.Time { return it.CreatedAt },
	)
}
