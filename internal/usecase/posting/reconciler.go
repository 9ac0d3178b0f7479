package posting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"skill-hire/internal/domain/business"
	"skill-hire/internal/domain/job"
	"skill-hire/internal/pkg/logger"
	"skill-hire/internal/pkg/workerpool"
	"skill-hire/internal/repository"
)

const (
	reconcileLockKey = "posting:reconcile:lock"
	reconcileLockTTL = 5 * time.Minute
	claimLease       = 2 * time.Minute
)

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

// Reconciler replays posting steps that failed at request time. Each replay
// is idempotent: the admin notification is only created when the job has
// none, and the fan-out skips workers that were already notified. Passes are
// serialised by a lock and entries are leased, so overlapping passes never
// replay the same entry.
type Reconciler struct {
	deps        Deps
	svc         *Service
	locker      Locker
	batch       int
	maxAttempts int
	workers     int
	logger      logrus.FieldLogger
}

type ReconcileReport struct {
	Scanned  int  `json:"scanned"`
	Resolved int  `json:"resolved"`
	Failed   int  `json:"failed"`
	Skipped  bool `json:"skipped,omitempty"`
}

func NewReconciler(svc *Service, batch, maxAttempts int, log logrus.FieldLogger) *Reconciler {
	if batch <= 0 {
		batch = 50
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Reconciler{
		deps:        svc.deps,
		svc:         svc,
		batch:       batch,
		maxAttempts: maxAttempts,
		workers:     1,
		logger:      logger.OrDefault(log),
	}
}

// SetWorkers sets how many outbox entries are replayed at once.
func (r *Reconciler) SetWorkers(n int) {
	if n > 0 {
		r.workers = n
	}
}

// SetLocker makes Run take a pass-wide lock. Without one, entry leases are
// the only guard.
func (r *Reconciler) SetLocker(l Locker) {
	r.locker = l
}

// Run processes one batch of pending outbox entries. When another pass holds
// the lock it returns a report with Skipped set.
func (r *Reconciler) Run(ctx context.Context) (ReconcileReport, error) {
	if r.deps.Outbox == nil {
		return ReconcileReport{}, nil
	}

	if r.locker != nil {
		token, ok, err := r.locker.Acquire(ctx, reconcileLockKey, reconcileLockTTL)
		switch {
		case err != nil:
			r.logger.WithError(err).Warn("reconcile lock unavailable, relying on entry leases")
		case !ok:
			r.logger.Debug("reconcile pass already running")
			return ReconcileReport{Skipped: true}, nil
		default:
			defer func() {
				if err := r.locker.Release(context.WithoutCancel(ctx), reconcileLockKey, token); err != nil {
					r.logger.WithError(err).Warn("reconcile lock release failed")
				}
			}()
		}
	}

	entries, err := r.deps.Outbox.ClaimPending(ctx, r.batch, r.maxAttempts, claimLease)
	if err != nil {
		return ReconcileReport{}, errors.Join(ErrInternal, err)
	}

	rep := ReconcileReport{Scanned: len(entries)}
	if len(entries) == 0 {
		return rep, nil
	}

	pool := workerpool.New(r.workers, len(entries))
	results := pool.Run(ctx)
	for _, e := range entries {
		pool.Submit(func(ctx context.Context) error { return r.reconcile(ctx, e) })
	}
	pool.Close()

	for err := range results {
		if err != nil {
			rep.Failed++
			continue
		}
		rep.Resolved++
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

func (r *Reconciler) reconcile(ctx context.Context, e repository.OutboxEntry) error {
	log := r.logger.WithFields(logrus.Fields{"outbox_id": e.ID, "job_id": e.JobID, "step": e.Step, "attempt": e.Attempts + 1})

	if err := r.replay(ctx, e); err != nil {
		if mErr := r.deps.Outbox.MarkFailed(ctx, e.ID, err.Error()); mErr != nil {
			log.WithError(mErr).Error("could not record reconcile failure")
		}
		if e.Attempts+1 >= r.maxAttempts {
			log.WithError(err).Error("giving up on posting step")
		} else {
			log.WithError(err).Warn("posting step still failing")
		}
		return err
	}

	if err := r.deps.Outbox.MarkResolved(ctx, e.ID); err != nil {
		log.WithError(err).Error("could not resolve outbox entry")
		return nil
	}
	log.Info("posting step reconciled")
	return nil
}

// Loop runs Run every interval until ctx is done.
func (r *Reconciler) Loop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := r.Run(ctx); err != nil && ctx.Err() == nil {
				r.logger.WithError(err).Warn("reconcile pass failed")
			}
		}
	}
}

func (r *Reconciler) replay(ctx context.Context, e repository.OutboxEntry) error {
	j, err := r.deps.Jobs.GetByID(ctx, e.JobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}

	switch e.Step {
	case StepAdminNotification:
		return r.replayAdmin(ctx, j)
	case StepWorkerFanout, StepWorkerMatch:
		match, fanout := r.svc.fanOut(ctx, j)
		if !match.OK {
			return errors.New(match.Error)
		}
		if fanout != nil && !fanout.OK {
			return errors.New(fanout.Error)
		}
		return nil
	default:
		return fmt.Errorf("unknown step %q", e.Step)
	}
}

func (r *Reconciler) replayAdmin(ctx context.Context, j job.Job) error {
	exists, err := r.deps.AdminNotifications.ExistsForJob(ctx, j.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = r.deps.AdminNotifications.Create(ctx, r.svc.adminNotification(j, business.Business{ID: j.BusinessID, Name: j.Company}))
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}
