package posting

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"skill-hire/internal/domain/business"
	"skill-hire/internal/domain/job"
	"skill-hire/internal/domain/notification"
	"skill-hire/internal/domain/worker"
	"skill-hire/internal/pkg/logger"
	"skill-hire/internal/pkg/validation"
	"skill-hire/internal/repository"
	"skill-hire/internal/session"
)

var (
	ErrInvalidJob       = errors.New("invalid job")
	ErrBusinessNotFound = errors.New("business not found")
	ErrInternal         = errors.New("internal error")
)

const (
	StepAdminNotification = "admin_notification"
	StepWorkerMatch       = "worker_match"
	StepWorkerFanout      = "worker_fanout"
)

type JobForm struct {
	Title         string `json:"title" validate:"required"`
	Location      string `json:"location"`
	JobType       string `json:"job_type" validate:"omitempty,oneof=full-time part-time contract temporary seasonal"`
	Category      string `json:"category"`
	Salary        string `json:"salary"`
	Description   string `json:"description" validate:"required"`
	Requirements  string `json:"requirements"`
	ContactEmail  string `json:"contact_email" validate:"omitempty,email"`
	WorkersNeeded int    `json:"workers_needed" validate:"gte=0"`
}

// StepOutcome reports one best-effort step of a posting.
type StepOutcome struct {
	Step  string `json:"step"`
	OK    bool   `json:"ok"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type PostResult struct {
	Job             job.Job       `json:"job"`
	Steps           []StepOutcome `json:"steps"`
	NotifiedWorkers int           `json:"notified_workers"`
}

// Complete reports whether every best-effort step succeeded.
func (r PostResult) Complete() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

type Jobs interface {
	Create(ctx context.Context, j job.Job) (job.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]job.Job, error)
}

type Businesses interface {
	GetByEmail(ctx context.Context, email string) (business.Business, error)
}

type Workers interface {
	FindBySkill(ctx context.Context, skill string) ([]worker.Worker, error)
}

type WorkerNotifications interface {
	CreateForWorkers(ctx context.Context, jobID uuid.UUID, workerIDs []uuid.UUID, title, message string) (int64, error)
}

type AdminNotifications interface {
	Create(ctx context.Context, n notification.AdminNotification) (notification.AdminNotification, error)
	ExistsForJob(ctx context.Context, jobID uuid.UUID) (bool, error)
}

type Outbox interface {
	Enqueue(ctx context.Context, jobID uuid.UUID, step string, cause string) error
	ClaimPending(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]repository.OutboxEntry, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string) error
}

type Deps struct {
	Jobs                Jobs
	Businesses          Businesses
	Workers             Workers
	WorkerNotifications WorkerNotifications
	AdminNotifications  AdminNotifications
	Outbox              Outbox
}

type Service struct {
	deps   Deps
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewService(deps Deps, log logrus.FieldLogger) *Service {
	return &Service{deps: deps, logger: logger.OrDefault(log), now: time.Now}
}

// PostJob validates and stores the job, then runs the admin notification and
// worker fan-out steps. Only validation, business lookup and the job insert
// can fail the call; the other steps are reported in the result and queued
// for reconciliation when they fail.
func (s *Service) PostJob(ctx context.Context, sess session.Session, form JobForm) (PostResult, error) {
	form = normalizeForm(form)
	if err := validation.Check(ErrInvalidJob, &form); err != nil {
		return PostResult{}, err
	}

	biz, err := s.deps.Businesses.GetByEmail(ctx, sess.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return PostResult{}, ErrBusinessNotFound
		}
		return PostResult{}, errors.Join(ErrInternal, err)
	}

	contact := form.ContactEmail
	if contact == "" {
		contact = sess.Email
	}
	created, err := s.deps.Jobs.Create(ctx, job.Job{
		Title:         form.Title,
		Company:       biz.Name,
		Location:      form.Location,
		JobType:       form.JobType,
		Category:      form.Category,
		Salary:        form.Salary,
		Description:   form.Description,
		Requirements:  form.Requirements,
		ContactEmail:  contact,
		WorkersNeeded: form.WorkersNeeded,
		PostedAt:      s.now().UTC(),
		Status:        job.StatusActive,
		BusinessID:    biz.ID,
	})
	if err != nil {
		return PostResult{}, errors.Join(ErrInternal, err)
	}

	log := s.logger.WithFields(logrus.Fields{"job_id": created.ID, "skill": created.Title})
	res := PostResult{Job: created}

	adminStep := s.notifyAdmin(ctx, created, biz)
	res.Steps = append(res.Steps, adminStep)
	if !adminStep.OK {
		log.WithField("error", adminStep.Error).Warn("admin notification failed")
		s.enqueue(ctx, log, created.ID, StepAdminNotification, adminStep.Error)
	}

	matchStep, fanoutStep := s.fanOut(ctx, created)
	res.Steps = append(res.Steps, matchStep)
	if fanoutStep != nil {
		res.Steps = append(res.Steps, *fanoutStep)
		if fanoutStep.OK {
			res.NotifiedWorkers = fanoutStep.Count
		}
	}
	switch {
	case !matchStep.OK:
		log.WithField("error", matchStep.Error).Warn("worker match failed")
		s.enqueue(ctx, log, created.ID, StepWorkerFanout, matchStep.Error)
	case fanoutStep != nil && !fanoutStep.OK:
		log.WithField("error", fanoutStep.Error).Warn("worker fan-out failed")
		s.enqueue(ctx, log, created.ID, StepWorkerFanout, fanoutStep.Error)
	}

	log.WithFields(logrus.Fields{"notified": res.NotifiedWorkers, "complete": res.Complete()}).Info("job posted")
	return res, nil
}

// ListJobs returns the jobs posted by the session's business, newest first.
func (s *Service) ListJobs(ctx context.Context, sess session.Session) ([]job.Job, error) {
	biz, err := s.deps.Businesses.GetByEmail(ctx, sess.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, errors.Join(ErrInternal, err)
	}
	jobs, err := s.deps.Jobs.ListByBusiness(ctx, biz.ID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	if jobs == nil {
		jobs = []job.Job{}
	}
	return jobs, nil
}

func (s *Service) adminNotification(j job.Job, biz business.Business) notification.AdminNotification {
	return notification.AdminNotification{
		Type:          notification.TypeNewJob,
		JobID:         j.ID,
		BusinessID:    biz.ID,
		BusinessName:  biz.Name,
		Skill:         j.Title,
		WorkersNeeded: j.WorkersNeeded,
		Title:         adminTitle(j.Title),
		Message:       adminMessage(biz.Name, j.WorkersNeeded, j.Title),
		CreatedAt:     s.now().UTC(),
		Status:        notification.AdminStatusInfo,
	}
}

func (s *Service) notifyAdmin(ctx context.Context, j job.Job, biz business.Business) StepOutcome {
	_, err := s.deps.AdminNotifications.Create(ctx, s.adminNotification(j, biz))
	if err != nil {
		return StepOutcome{Step: StepAdminNotification, Error: err.Error()}
	}
	return StepOutcome{Step: StepAdminNotification, OK: true, Count: 1}
}

// fanOut returns the match outcome and, when matching succeeded with at
// least one worker, the insert outcome.
func (s *Service) fanOut(ctx context.Context, j job.Job) (StepOutcome, *StepOutcome) {
	workers, err := s.deps.Workers.FindBySkill(ctx, j.Title)
	if err != nil {
		return StepOutcome{Step: StepWorkerMatch, Error: err.Error()}, nil
	}
	match := StepOutcome{Step: StepWorkerMatch, OK: true, Count: len(workers)}
	if len(workers) == 0 {
		return match, nil
	}

	ids := make([]uuid.UUID, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.ID)
	}
	n, err := s.deps.WorkerNotifications.CreateForWorkers(ctx, j.ID, ids,
		workerTitle(j.Title), workerMessage(j.Company, j.WorkersNeeded, j.Title))
	if err != nil {
		return match, &StepOutcome{Step: StepWorkerFanout, Error: err.Error()}
	}
	return match, &StepOutcome{Step: StepWorkerFanout, OK: true, Count: int(n)}
}

func (s *Service) enqueue(ctx context.Context, log logrus.FieldLogger, jobID uuid.UUID, step, cause string) {
	if s.deps.Outbox == nil {
		return
	}
	if err := s.deps.Outbox.Enqueue(ctx, jobID, step, cause); err != nil {
		log.WithError(err).WithField("step", step).Error("could not queue step for reconciliation")
	}
}

func normalizeForm(f JobForm) JobForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.ContactEmail = strings.TrimSpace(f.ContactEmail)
	f.JobType = strings.TrimSpace(f.JobType)
	if f.JobType == "" {
		f.JobType = job.TypeFullTime
	}
	if f.WorkersNeeded == 0 {
		f.WorkersNeeded = 1
	}
	return f
}
