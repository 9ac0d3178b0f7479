package dashboard

import (
	"context"
	"errors"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"skill-hire/internal/domain/application"
	"skill-hire/internal/domain/business"
	"skill-hire/internal/domain/job"
	"skill-hire/internal/domain/notification"
	"skill-hire/internal/domain/skill"
	"skill-hire/internal/domain/user"
	"skill-hire/internal/domain/worker"
	"skill-hire/internal/pkg/logger"
	"skill-hire/internal/pkg/workerpool"
	"skill-hire/internal/session"
	"skill-hire/internal/usecase/auth"
	"skill-hire/internal/usecase/feed"
	"skill-hire/internal/usecase/skills"
)

var ErrUnknownRole = errors.New("unknown role")

type BusinessView struct {
	Profile *business.Business   `json:"profile"`
	Jobs    []job.Job            `json:"jobs"`
	Skills  []skill.Availability `json:"skills"`
}

type WorkerView struct {
	Profile       *worker.Worker                `json:"profile"`
	Notifications []notification.WorkerFeedItem `json:"notifications"`
	Unread        int                           `json:"unread"`
	Applications  []application.Application     `json:"applications"`
	EmptyMessage  string                        `json:"empty_message,omitempty"`
}

type AdminView struct {
	Notifications []notification.AdminNotification `json:"notifications"`
	Counts        map[notification.AdminStatus]int `json:"counts"`
}

type View struct {
	Role        user.Role     `json:"role"`
	Business    *BusinessView `json:"business,omitempty"`
	Worker      *WorkerView   `json:"worker,omitempty"`
	Admin       *AdminView    `json:"admin,omitempty"`
	Warnings    []string      `json:"warnings,omitempty"`
	LastUpdated time.Time     `json:"last_updated"`
}

type Businesses interface {
	GetByID(ctx context.Context, id uuid.UUID) (business.Business, error)
	GetByEmail(ctx context.Context, email string) (business.Business, error)
}

type Workers interface {
	GetByID(ctx context.Context, id uuid.UUID) (worker.Worker, error)
	GetByEmail(ctx context.Context, email string) (worker.Worker, error)
	GetByPhone(ctx context.Context, phone string) (worker.Worker, error)
}

type Jobs interface {
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]job.Job, error)
}

type WorkerFeed interface {
	List(ctx context.Context, workerID uuid.UUID) ([]notification.WorkerFeedItem, error)
	UnreadCount(ctx context.Context, workerID uuid.UUID) (int, error)
	Applications(ctx context.Context, workerID uuid.UUID) ([]application.Application, error)
}

type AdminFeed interface {
	ListAll(ctx context.Context) ([]notification.AdminNotification, error)
	Counts(ctx context.Context) (map[notification.AdminStatus]int, error)
}

type SkillAvailability interface {
	Availability(ctx context.Context) (skills.Result, error)
}

type Deps struct {
	Businesses Businesses
	Workers    Workers
	Jobs       Jobs
	WorkerFeed WorkerFeed
	AdminFeed  AdminFeed
	Skills     SkillAvailability
}

type Service struct {
	deps   Deps
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewService(deps Deps, log logrus.FieldLogger) *Service {
	return &Service{deps: deps, logger: logger.OrDefault(log), now: time.Now}
}

// sections runs named loaders on a worker pool. A failing loader becomes a
// warning on the view instead of failing the whole page.
type sections struct {
	names []string
	tasks []workerpool.Task
	log   logrus.FieldLogger
}

type sectionError struct {
	name string
	err  error
}

func (e *sectionError) Error() string { return e.name + ": " + e.err.Error() }
func (e *sectionError) Unwrap() error { return e.err }

func (s *sections) run(name string, fn func() error) {
	s.names = append(s.names, name)
	s.tasks = append(s.tasks, func(context.Context) error {
		if err := fn(); err != nil {
			return &sectionError{name: name, err: err}
		}
		return nil
	})
}

// wait runs every queued loader and returns the sorted names of the ones
// that failed or never ran because ctx ended.
func (s *sections) wait(ctx context.Context) []string {
	if len(s.tasks) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		s.log.WithError(err).Warn("dashboard sections skipped")
		return sortedUnique(s.names)
	}
	pool := workerpool.New(len(s.tasks), len(s.tasks))
	results := pool.Run(ctx)
	for _, t := range s.tasks {
		pool.Submit(t)
	}
	pool.Close()

	var warnings []string
	finished := 0
	for err := range results {
		finished++
		var se *sectionError
		if errors.As(err, &se) {
			s.log.WithError(se.err).WithField("section", se.name).Warn("dashboard section failed")
			warnings = append(warnings, se.name)
		}
	}
	if finished < len(s.tasks) {
		s.log.WithError(ctx.Err()).Warn("dashboard sections cut short")
		warnings = s.names
	}
	return sortedUnique(warnings)
}

func sortedUnique(names []string) []string {
	out := slices.Clone(names)
	sort.Strings(out)
	return slices.Compact(out)
}

func (s *Service) Compose(ctx context.Context, sess session.Session) (View, error) {
	v := View{Role: sess.Role, LastUpdated: s.now().UTC()}
	sec := &sections{log: s.logger.WithFields(logrus.Fields{"user_id": sess.UserID, "role": sess.Role})}

	switch sess.Role {
	case user.RoleBusiness:
		v.Business = s.business(ctx, sess, sec)
	case user.RoleWorker:
		v.Worker = s.worker(ctx, sess, sec)
	case user.RoleAdmin:
		v.Admin = s.admin(ctx, sec)
	default:
		return View{}, ErrUnknownRole
	}

	v.Warnings = sec.wait(ctx)
	if v.Worker != nil && len(v.Worker.Notifications) == 0 && !slices.Contains(v.Warnings, "notifications") {
		v.Worker.EmptyMessage = feed.EmptyMessage
	}
	return v, nil
}

func (s *Service) business(ctx context.Context, sess session.Session, sec *sections) *BusinessView {
	bv := &BusinessView{Jobs: []job.Job{}, Skills: []skill.Availability{}}

	sec.run("profile", func() error {
		var b business.Business
		var err error
		if sess.HasRecord() {
			b, err = s.deps.Businesses.GetByID(ctx, sess.RecordID)
		} else {
			b, err = s.deps.Businesses.GetByEmail(ctx, sess.Email)
		}
		if err != nil {
			return err
		}
		bv.Profile = &b
		if sess.HasRecord() {
			return nil
		}
		jobs, err := s.deps.Jobs.ListByBusiness(ctx, b.ID)
		if err != nil {
			return err
		}
		bv.Jobs = jobs
		return nil
	})
	if sess.HasRecord() {
		sec.run("jobs", func() error {
			jobs, err := s.deps.Jobs.ListByBusiness(ctx, sess.RecordID)
			if err != nil {
				return err
			}
			bv.Jobs = jobs
			return nil
		})
	}
	sec.run("skills", func() error {
		res, err := s.deps.Skills.Availability(ctx)
		if err != nil {
			return err
		}
		bv.Skills = res.Skills
		return nil
	})
	return bv
}

func (s *Service) worker(ctx context.Context, sess session.Session, sec *sections) *WorkerView {
	wv := &WorkerView{
		Notifications: []notification.WorkerFeedItem{},
		Applications:  []application.Application{},
	}

	workerID := sess.RecordID
	if !sess.HasRecord() {
		w, err := auth.FindWorker(ctx, s.deps.Workers, sess.Phone, sess.Email)
		if err != nil {
			sec.run("profile", func() error { return err })
			return wv
		}
		wv.Profile = &w
		workerID = w.ID
	} else {
		sec.run("profile", func() error {
			w, err := s.deps.Workers.GetByID(ctx, workerID)
			if err != nil {
				return err
			}
			wv.Profile = &w
			return nil
		})
	}

	sec.run("notifications", func() error {
		items, err := s.deps.WorkerFeed.List(ctx, workerID)
		if err != nil {
			return err
		}
		wv.Notifications = items
		return nil
	})
	sec.run("unread", func() error {
		n, err := s.deps.WorkerFeed.UnreadCount(ctx, workerID)
		if err != nil {
			return err
		}
		wv.Unread = n
		return nil
	})
	sec.run("applications", func() error {
		apps, err := s.deps.WorkerFeed.Applications(ctx, workerID)
		if err != nil {
			return err
		}
		wv.Applications = apps
		return nil
	})
	return wv
}

func (s *Service) admin(ctx context.Context, sec *sections) *AdminView {
	av := &AdminView{
		Notifications: []notification.AdminNotification{},
		Counts:        map[notification.AdminStatus]int{},
	}
	sec.run("notifications", func() error {
		items, err := s.deps.AdminFeed.ListAll(ctx)
		if err != nil {
			return err
		}
		av.Notifications = items
		return nil
	})
	sec.run("counts", func() error {
		counts, err := s.deps.AdminFeed.Counts(ctx)
		if err != nil {
			return err
		}
		av.Counts = counts
		return nil
	})
	return av
}
