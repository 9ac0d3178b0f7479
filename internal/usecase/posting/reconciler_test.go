package posting

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"skill-hire/internal/infrastructure/cache"
)

func TestReconciler_ReplaysFailedSteps(t *testing.T) {
	f := newFixture(plumber("A"), plumber("B"))
	f.an.err = errors.New("admin down")
	f.wn.err = errors.New("fan-out down")

	res, err := f.svc.PostJob(context.Background(), f.sess, JobForm{Title: "Plumber", Description: "fix", WorkersNeeded: 2})
	require.NoError(t, err)
	require.Equal(t, 2, f.outbox.pending())

	f.an.err = nil
	f.wn.err = nil
	log, _ := test.NewNullLogger()
	r := NewReconciler(f.svc, 10, 3, log)

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, ReconcileReport{Scanned: 2, Resolved: 2}, rep)
	require.Zero(t, f.outbox.pending())

	require.Len(t, f.an.items, 1)
	require.Equal(t, res.Job.ID, f.an.items[0].JobID)
	require.Equal(t, "Acme Builders has posted a job for 2 Plumber(s)", f.an.items[0].Message)
	require.Len(t, f.wn.rows, 2)

	rep, err = r.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, rep.Scanned)
}

func TestReconciler_AdminReplayIsIdempotent(t *testing.T) {
	f := newFixture()
	res, err := f.svc.PostJob(context.Background(), f.sess, JobForm{Title: "Cook", Description: "cook"})
	require.NoError(t, err)
	require.Len(t, f.an.items, 1)

	require.NoError(t, f.outbox.Enqueue(context.Background(), res.Job.ID, StepAdminNotification, "lost ack"))
	rep, err := NewReconciler(f.svc, 10, 3, nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rep.Resolved)
	require.Len(t, f.an.items, 1)
}

func TestReconciler_FanoutReplaySkipsAlreadyNotified(t *testing.T) {
	f := newFixture(plumber("A"))
	res, err := f.svc.PostJob(context.Background(), f.sess, JobForm{Title: "Plumber", Description: "fix"})
	require.NoError(t, err)
	require.Len(t, f.wn.rows, 1)

	f.work.items = append(f.work.items, plumber("B"))
	require.NoError(t, f.outbox.Enqueue(context.Background(), res.Job.ID, StepWorkerFanout, "partial"))

	_, err = NewReconciler(f.svc, 10, 3, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, f.wn.rows, 2)
}

func TestReconciler_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture(plumber("A"))
	f.wn.err = errors.New("still down")
	_, err := f.svc.PostJob(context.Background(), f.sess, JobForm{Title: "Plumber", Description: "fix"})
	require.NoError(t, err)

	r := NewReconciler(f.svc, 10, 2, nil)
	for i := 0; i < 2; i++ {
		rep, err := r.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, rep.Failed)
	}

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, rep.Scanned)
	require.Equal(t, 2, f.outbox.entries[0].Attempts)
	require.Equal(t, "still down", f.outbox.entries[0].LastError)
}

func postWithAdminDown(t *testing.T, f *fixture) {
	t.Helper()
	f.an.err = errors.New("admin down")
	_, err := f.svc.PostJob(context.Background(), f.sess, JobForm{Title: "Cook", Description: "cook"})
	require.NoError(t, err)
	f.an.err = nil
	require.Equal(t, 1, f.outbox.pending())
}

func TestReconciler_OverlappingRunsDoNotReplayTheSameEntry(t *testing.T) {
	f := newFixture()
	postWithAdminDown(t, f)
	f.an.entered = make(chan struct{}, 1)
	f.an.hold = make(chan struct{})

	r := NewReconciler(f.svc, 10, 3, nil)
	first := make(chan ReconcileReport, 1)
	go func() {
		rep, _ := r.Run(context.Background())
		first <- rep
	}()
	<-f.an.entered

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, rep.Scanned)

	close(f.an.hold)
	require.Equal(t, ReconcileReport{Scanned: 1, Resolved: 1}, <-first)
	require.Equal(t, 1, f.an.count())
	require.Zero(t, f.outbox.pending())
}

func TestReconciler_SkipsWhileAnotherPassHoldsTheLock(t *testing.T) {
	f := newFixture()
	postWithAdminDown(t, f)

	locker := cache.NewLocalLocker()
	token, ok, err := locker.Acquire(context.Background(), reconcileLockKey, reconcileLockTTL)
	require.NoError(t, err)
	require.True(t, ok)

	r := NewReconciler(f.svc, 10, 3, nil)
	r.SetLocker(locker)

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.True(t, rep.Skipped)
	require.Equal(t, 1, f.outbox.pending())
	require.Zero(t, f.an.count())

	require.NoError(t, locker.Release(context.Background(), reconcileLockKey, token))
	rep, err = r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, ReconcileReport{Scanned: 1, Resolved: 1}, rep)

	// the pass released its own lock
	_, ok, err = locker.Acquire(context.Background(), reconcileLockKey, reconcileLockTTL)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestReconciler_ConcurrentAdminReplaysCreateOneNotification(t *testing.T) {
	f := newFixture()
	postWithAdminDown(t, f)
	jobID := f.outbox.entries[0].JobID
	require.NoError(t, f.outbox.Enqueue(context.Background(), jobID, StepAdminNotification, "retry"))

	f.an.entered = make(chan struct{}, 2)
	f.an.hold = make(chan struct{})

	r := NewReconciler(f.svc, 10, 3, nil)
	r.SetWorkers(2)
	done := make(chan ReconcileReport, 1)
	go func() {
		rep, _ := r.Run(context.Background())
		done <- rep
	}()
	<-f.an.entered
	<-f.an.entered
	close(f.an.hold)

	require.Equal(t, ReconcileReport{Scanned: 2, Resolved: 2}, <-done)
	require.Equal(t, 1, f.an.count())
}
