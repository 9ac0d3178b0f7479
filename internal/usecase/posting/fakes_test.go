package posting

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"skill-hire/internal/domain/business"
	"skill-hire/internal/domain/job"
	"skill-hire/internal/domain/notification"
	"skill-hire/internal/domain/worker"
	"skill-hire/internal/repository"
)

type fakeJobs struct {
	items   map[uuid.UUID]job.Job
	created int
	err     error
}

func (f *fakeJobs) Create(_ context.Context, j job.Job) (job.Job, error) {
	if f.err != nil {
		return job.Job{}, f.err
	}
	if f.items == nil {
		f.items = map[uuid.UUID]job.Job{}
	}
	j.ID = uuid.New()
	f.items[j.ID] = j
	f.created++
	return j, nil
}

func (f *fakeJobs) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]job.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []job.Job
	for _, j := range f.items {
		if j.BusinessID == businessID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := f.items[id]
	if !ok {
		return job.Job{}, repository.ErrNotFound
	}
	return j, nil
}

type fakeBusinesses struct {
	items []business.Business
}

func (f *fakeBusinesses) GetByEmail(_ context.Context, email string) (business.Business, error) {
	for _, b := range f.items {
		if b.Email == email {
			return b, nil
		}
	}
	return business.Business{}, repository.ErrNotFound
}

type fakeWorkers struct {
	items []worker.Worker
	err   error
}

func (f *fakeWorkers) FindBySkill(_ context.Context, skill string) ([]worker.Worker, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []worker.Worker
	for _, w := range f.items {
		if w.Skill == skill {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeWorkerNotifications struct {
	mu    sync.Mutex
	rows  map[[2]uuid.UUID]notification.WorkerNotification
	err   error
	calls int
}

func (f *fakeWorkerNotifications) CreateForWorkers(_ context.Context, jobID uuid.UUID, workerIDs []uuid.UUID, title, message string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if f.rows == nil {
		f.rows = map[[2]uuid.UUID]notification.WorkerNotification{}
	}
	var n int64
	for _, w := range workerIDs {
		key := [2]uuid.UUID{w, jobID}
		if _, ok := f.rows[key]; ok {
			continue
		}
		f.rows[key] = notification.WorkerNotification{
			ID: uuid.New(), WorkerID: w, JobID: jobID, Title: title, Message: message,
			Status: notification.WorkerStatusUnread, ActionRequired: true, ActionType: notification.ActionAcceptDecline,
			Type: notification.TypeJobAvailable,
		}
		n++
	}
	return n, nil
}

type fakeAdminNotifications struct {
	mu    sync.Mutex
	items []notification.AdminNotification
	err   error

	// entered and hold, when set, park ExistsForJob until hold is closed.
	entered chan struct{}
	hold    chan struct{}
}

func (f *fakeAdminNotifications) Create(_ context.Context, n notification.AdminNotification) (notification.AdminNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return notification.AdminNotification{}, f.err
	}
	for _, existing := range f.items {
		if existing.Type == notification.TypeNewJob && n.Type == notification.TypeNewJob && existing.JobID == n.JobID {
			return notification.AdminNotification{}, repository.ErrDuplicate
		}
	}
	n.ID = uuid.New()
	f.items = append(f.items, n)
	return n, nil
}

func (f *fakeAdminNotifications) ExistsForJob(_ context.Context, jobID uuid.UUID) (bool, error) {
	f.mu.Lock()
	exists := false
	for _, n := range f.items {
		if n.JobID == jobID {
			exists = true
			break
		}
	}
	entered, hold := f.entered, f.hold
	f.mu.Unlock()

	if hold != nil {
		entered <- struct{}{}
		<-hold
	}
	return exists, nil
}

func (f *fakeAdminNotifications) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type fakeOutbox struct {
	mu      sync.Mutex
	entries []repository.OutboxEntry
	err     error
	now     func() time.Time
}

func (f *fakeOutbox) clock() time.Time {
	if f.now != nil {
		return f.now()
	}
	return time.Now()
}

func (f *fakeOutbox) Enqueue(_ context.Context, jobID uuid.UUID, step string, cause string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, repository.OutboxEntry{ID: uuid.New(), JobID: jobID, Step: step, LastError: cause})
	return nil
}

func (f *fakeOutbox) ClaimPending(_ context.Context, limit, maxAttempts int, lease time.Duration) ([]repository.OutboxEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.clock()
	var out []repository.OutboxEntry
	for i := range f.entries {
		e := &f.entries[i]
		if len(out) >= limit {
			break
		}
		if e.ResolvedAt != nil || e.Attempts >= maxAttempts {
			continue
		}
		if e.ClaimedUntil != nil && e.ClaimedUntil.After(now) {
			continue
		}
		until := now.Add(lease)
		e.ClaimedUntil = &until
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeOutbox) find(id uuid.UUID) *repository.OutboxEntry {
	for i := range f.entries {
		if f.entries[i].ID == id {
			return &f.entries[i]
		}
	}
	return nil
}

func (f *fakeOutbox) MarkResolved(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.find(id)
	if e == nil {
		return errors.New("missing")
	}
	e.Attempts++
	done := e.CreatedAt
	e.ResolvedAt = &done
	e.ClaimedUntil = nil
	return nil
}

func (f *fakeOutbox) MarkFailed(_ context.Context, id uuid.UUID, cause string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.find(id)
	if e == nil {
		return errors.New("missing")
	}
	e.Attempts++
	e.LastError = cause
	e.ClaimedUntil = nil
	return nil
}

func (f *fakeOutbox) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.ResolvedAt == nil {
			n++
		}
	}
	return n
}
