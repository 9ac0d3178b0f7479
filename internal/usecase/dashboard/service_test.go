package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"skill-hire/internal/domain/application"
	"skill-hire/internal/domain/business"
	"skill-hire/internal/domain/job"
	"skill-hire/internal/domain/notification"
	"skill-hire/internal/domain/skill"
	"skill-hire/internal/domain/user"
	"skill-hire/internal/domain/worker"
	"skill-hire/internal/repository"
	"skill-hire/internal/session"
	"skill-hire/internal/usecase/feed"
	"skill-hire/internal/usecase/skills"
)

type fakeBusinesses struct{ b business.Business }

func (f fakeBusinesses) GetByID(_ context.Context, id uuid.UUID) (business.Business, error) {
	if id != f.b.ID {
		return business.Business{}, repository.ErrNotFound
	}
	return f.b, nil
}

func (f fakeBusinesses) GetByEmail(_ context.Context, email string) (business.Business, error) {
	if email != f.b.Email {
		return business.Business{}, repository.ErrNotFound
	}
	return f.b, nil
}

type fakeWorkers struct{ w worker.Worker }

func (f fakeWorkers) GetByID(_ context.Context, id uuid.UUID) (worker.Worker, error) {
	if id != f.w.ID {
		return worker.Worker{}, repository.ErrNotFound
	}
	return f.w, nil
}

func (f fakeWorkers) GetByEmail(_ context.Context, email string) (worker.Worker, error) {
	if email != f.w.Email {
		return worker.Worker{}, repository.ErrNotFound
	}
	return f.w, nil
}

func (f fakeWorkers) GetByPhone(_ context.Context, phone string) (worker.Worker, error) {
	if phone != f.w.Phone {
		return worker.Worker{}, repository.ErrNotFound
	}
	return f.w, nil
}

type fakeJobs struct{ items []job.Job }

func (f fakeJobs) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]job.Job, error) {
	var out []job.Job
	for _, j := range f.items {
		if j.BusinessID == businessID {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeWorkerFeed struct {
	items   []notification.WorkerFeedItem
	listErr error
}

func (f fakeWorkerFeed) List(context.Context, uuid.UUID) ([]notification.WorkerFeedItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f fakeWorkerFeed) UnreadCount(context.Context, uuid.UUID) (int, error) {
	return len(f.items), nil
}

func (f fakeWorkerFeed) Applications(context.Context, uuid.UUID) ([]application.Application, error) {
	return []application.Application{}, nil
}

type fakeAdminFeed struct{}

func (fakeAdminFeed) ListAll(context.Context) ([]notification.AdminNotification, error) {
	return []notification.AdminNotification{{ID: uuid.New(), Status: notification.AdminStatusInfo}}, nil
}

func (fakeAdminFeed) Counts(context.Context) (map[notification.AdminStatus]int, error) {
	return nil, errors.New("count failed")
}

type fakeSkills struct{}

func (fakeSkills) Availability(context.Context) (skills.Result, error) {
	return skills.Result{Skills: []skill.Availability{{Skill: "Cook", Count: 1}}}, nil
}

func newService(wf fakeWorkerFeed) (*Service, business.Business, worker.Worker) {
	b := business.Business{ID: uuid.New(), Name: "Acme", Email: "ops@acme.test"}
	w := worker.Worker{ID: uuid.New(), Name: "Ana", Email: "ana@x.test", Phone: "0812"}
	svc := NewService(Deps{
		Businesses: fakeBusinesses{b: b},
		Workers:    fakeWorkers{w: w},
		Jobs:       fakeJobs{items: []job.Job{{ID: uuid.New(), BusinessID: b.ID, Title: "Cook"}}},
		WorkerFeed: wf,
		AdminFeed:  fakeAdminFeed{},
		Skills:     fakeSkills{},
	}, nil)
	return svc, b, w
}

func TestCompose_Business(t *testing.T) {
	svc, b, _ := newService(fakeWorkerFeed{})

	v, err := svc.Compose(context.Background(), session.Session{Role: user.RoleBusiness, Email: b.Email})
	require.NoError(t, err)
	require.NotNil(t, v.Business)
	require.Equal(t, "Acme", v.Business.Profile.Name)
	require.Len(t, v.Business.Jobs, 1)
	require.Len(t, v.Business.Skills, 1)
	require.Empty(t, v.Warnings)
	require.Nil(t, v.Worker)
}

func TestCompose_WorkerResolvedByPhoneWithEmptyFeed(t *testing.T) {
	svc, _, w := newService(fakeWorkerFeed{})

	v, err := svc.Compose(context.Background(), session.Session{Role: user.RoleWorker, Phone: "0812", Email: "other@x.test"})
	require.NoError(t, err)
	require.Equal(t, w.ID, v.Worker.Profile.ID)
	require.Empty(t, v.Worker.Notifications)
	require.Equal(t, feed.EmptyMessage, v.Worker.EmptyMessage)
}

func TestCompose_WorkerSectionFailureBecomesWarning(t *testing.T) {
	svc, _, w := newService(fakeWorkerFeed{listErr: errors.New("db down")})

	v, err := svc.Compose(context.Background(), session.Session{Role: user.RoleWorker, RecordID: w.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"notifications"}, v.Warnings)
	require.Equal(t, "Ana", v.Worker.Profile.Name)
}

func TestCompose_Admin(t *testing.T) {
	svc, _, _ := newService(fakeWorkerFeed{})

	v, err := svc.Compose(context.Background(), session.Session{Role: user.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, v.Admin.Notifications, 1)
	require.Equal(t, []string{"counts"}, v.Warnings)
}

func TestCompose_UnknownRole(t *testing.T) {
	svc, _, _ := newService(fakeWorkerFeed{})
	_, err := svc.Compose(context.Background(), session.Session{Role: "guest"})
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestCompose_NoEmptyMessageWhenFeedFailed(t *testing.T) {
	svc, _, w := newService(fakeWorkerFeed{listErr: errors.New("db down")})

	v, err := svc.Compose(context.Background(), session.Session{Role: user.RoleWorker, RecordID: w.ID})
	require.NoError(t, err)
	require.Empty(t, v.Worker.EmptyMessage)
}

func TestCompose_SectionFailureIsLoggedByName(t *testing.T) {
	svc, _, _ := newService(fakeWorkerFeed{})
	log, hook := test.NewNullLogger()
	svc.logger = log

	_, err := svc.Compose(context.Background(), session.Session{Role: user.RoleAdmin})
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, "counts", entry.Data["section"])
	require.EqualError(t, entry.Data[logrus.ErrorKey].(error), "count failed")
}

func TestCompose_CanceledContextWarnsEverySection(t *testing.T) {
	svc, _, _ := newService(fakeWorkerFeed{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := svc.Compose(ctx, session.Session{Role: user.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, []string{"counts", "notifications"}, v.Warnings)
}
