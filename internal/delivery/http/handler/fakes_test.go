package handler

import (
	"context"

	"github.com/google/uuid"

	"skill-hire/internal/domain/application"
	"skill-hire/internal/domain/job"
	"skill-hire/internal/domain/notification"
	"skill-hire/internal/session"
	ucauth "skill-hire/internal/usecase/auth"
	"skill-hire/internal/usecase/dashboard"
	"skill-hire/internal/usecase/feed"
	"skill-hire/internal/usecase/posting"
	"skill-hire/internal/usecase/requests"
	"skill-hire/internal/usecase/skills"
)

type pingerFunc func() error

func (f pingerFunc) Ping(context.Context) error { return f() }

type fakeAuth struct {
	result     ucauth.Result
	err        error
	refreshed  string
	loggedOut  uuid.UUID
	registered ucauth.RegisterInput
}

func (f *fakeAuth) Register(_ context.Context, in ucauth.RegisterInput) (ucauth.Result, error) {
	f.registered = in
	return f.result, f.err
}

func (f *fakeAuth) Login(context.Context, ucauth.LoginInput) (ucauth.Result, error) {
	return f.result, f.err
}

func (f *fakeAuth) Refresh(_ context.Context, tok string) (ucauth.Result, error) {
	f.refreshed = tok
	return f.result, f.err
}

func (f *fakeAuth) Logout(_ context.Context, id uuid.UUID) error {
	f.loggedOut = id
	return f.err
}

type fakePosting struct {
	result posting.PostResult
	jobs   []job.Job
	err    error
	form   posting.JobForm
}

func (f *fakePosting) PostJob(_ context.Context, _ session.Session, form posting.JobForm) (posting.PostResult, error) {
	f.form = form
	return f.result, f.err
}

func (f *fakePosting) ListJobs(context.Context, session.Session) ([]job.Job, error) {
	return f.jobs, f.err
}

type fakeRequests struct {
	result requests.Result
	err    error
}

func (f *fakeRequests) Submit(context.Context, session.Session, requests.Form) (requests.Result, error) {
	return f.result, f.err
}

type fakeWorkerFeed struct {
	items      []notification.WorkerFeedItem
	unread     int
	apps       []application.Application
	respondIn  feed.RespondInput
	respondRes feed.RespondResult
	err        error
}

func (f *fakeWorkerFeed) List(context.Context, uuid.UUID) ([]notification.WorkerFeedItem, error) {
	return f.items, f.err
}

func (f *fakeWorkerFeed) UnreadCount(context.Context, uuid.UUID) (int, error) {
	return f.unread, f.err
}

func (f *fakeWorkerFeed) Applications(context.Context, uuid.UUID) ([]application.Application, error) {
	return f.apps, f.err
}

func (f *fakeWorkerFeed) Respond(_ context.Context, in feed.RespondInput) (feed.RespondResult, error) {
	f.respondIn = in
	return f.respondRes, f.err
}

type fakeAdminFeed struct {
	items  []notification.AdminNotification
	counts map[notification.AdminStatus]int
	status string
	err    error
}

func (f *fakeAdminFeed) ListAll(context.Context) ([]notification.AdminNotification, error) {
	return f.items, f.err
}

func (f *fakeAdminFeed) Counts(context.Context) (map[notification.AdminStatus]int, error) {
	return f.counts, f.err
}

func (f *fakeAdminFeed) SetStatus(_ context.Context, _ uuid.UUID, status string) error {
	f.status = status
	return f.err
}

type fakeReconciler struct {
	report posting.ReconcileReport
	err    error
}

func (f *fakeReconciler) Run(context.Context) (posting.ReconcileReport, error) {
	return f.report, f.err
}

type fakeSkills struct {
	result skills.Result
	err    error
}

func (f *fakeSkills) Availability(context.Context) (skills.Result, error) {
	return f.result, f.err
}

type fakeDashboard struct {
	view dashboard.View
	err  error
}

func (f *fakeDashboard) Compose(context.Context, session.Session) (dashboard.View, error) {
	return f.view, f.err
}
