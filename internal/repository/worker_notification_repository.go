package repository

import (
	"context"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/job"
	"skill-hire/internal/domain/notification"

	"github.com/google/uuid"
)

const tableWorkerNotifications = "worker_notifications"

type WorkerNotificationRepository interface {
	CreateForWorkers(ctx context.Context, jobID uuid.UUID, workerIDs []uuid.UUID, title, message string) (int64, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]notification.WorkerFeedItem, error)
	CountUnreadByWorker(ctx context.Context, workerID uuid.UUID) (int, error)
	UpdateResponse(ctx context.Context, id, jobID, workerID uuid.UUID, status notification.WorkerStatus) (bool, error)
	RevertResponse(ctx context.Context, id, workerID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (notification.WorkerNotification, error)
}

type PostgresWorkerNotificationRepository struct {
	db database.Querier
}

func NewPostgresWorkerNotificationRepository(db database.Querier) *PostgresWorkerNotificationRepository {
	return &PostgresWorkerNotificationRepository{db: db}
}

// CreateForWorkers inserts one actionable notification per worker in a single
// statement. Rows that already exist for a (worker, job) pair are skipped, so
// a repeated fan-out only fills the gaps.
func (r *PostgresWorkerNotificationRepository) CreateForWorkers(ctx context.Context, jobID uuid.UUID, workerIDs []uuid.UUID, title, message string) (int64, error) {
	if len(workerIDs) == 0 {
		return 0, nil
	}
	ids := make([]string, 0, len(workerIDs))
	for _, id := range workerIDs {
		ids = append(ids, id.String())
	}

	n, err := r.db.Exec(ctx,
		`INSERT INTO worker_notifications
			(worker_id, job_id, type, title, message, status, action_required, action_type, created_at)
		 SELECT w, $2, $3, $4, $5, $6, true, $7, now()
		 FROM unnest($1::uuid[]) AS w
		 ON CONFLICT (worker_id, job_id) DO NOTHING`,
		ids, jobID, notification.TypeJobAvailable, title, message,
		notification.WorkerStatusUnread, notification.ActionAcceptDecline,
	)
	if err != nil {
		return 0, wrap(tableWorkerNotifications, "insert", err)
	}
	return n, nil
}

func (r *PostgresWorkerNotificationRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]notification.WorkerFeedItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT n.id, n.worker_id, n.job_id, n.type, n.title, n.message, n.created_at, n.status,
			n.action_required, n.action_type,
			j.id, j.title, j.company, j.location, j.job_type, j.category, j.salary, j.description,
			j.requirements, j.contact_email, j.workers_needed, j.posted_at, j.status, j.business_id
		 FROM worker_notifications n
		 JOIN jobs j ON j.id = n.job_id
		 WHERE n.worker_id = $1
		 ORDER BY n.created_at DESC, n.id DESC`,
		workerID,
	)
	if err != nil {
		return nil, wrap(tableWorkerNotifications, "fetch", err)
	}
	defer rows.Close()

	out := make([]notification.WorkerFeedItem, 0)
	for rows.Next() {
		var it notification.WorkerFeedItem
		var j job.Job
		n := &it.WorkerNotification
		if err := rows.Scan(
			&n.ID, &n.WorkerID, &n.JobID, &n.Type, &n.Title, &n.Message, &n.CreatedAt, &n.Status,
			&n.ActionRequired, &n.ActionType,
			&j.ID, &j.Title, &j.Company, &j.Location, &j.JobType, &j.Category, &j.Salary, &j.Description,
			&j.Requirements, &j.ContactEmail, &j.WorkersNeeded, &j.PostedAt, &j.Status, &j.BusinessID,
		); err != nil {
			return nil, wrap(tableWorkerNotifications, "fetch", err)
		}
		it.Job = &j
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(tableWorkerNotifications, "fetch", err)
	}
	return out, nil
}

func (r *PostgresWorkerNotificationRepository) CountUnreadByWorker(ctx context.Context, workerID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM worker_notifications WHERE worker_id = $1 AND status = $2`,
		workerID, notification.WorkerStatusUnread,
	)
	if err := row.Scan(&n); err != nil {
		return 0, wrap(tableWorkerNotifications, "fetch", err)
	}
	return n, nil
}

// UpdateResponse records the worker's decision. It only matches a notification
// that belongs to the worker, refers to jobID and is still unread; false means
// nothing matched.
func (r *PostgresWorkerNotificationRepository) UpdateResponse(ctx context.Context, id, jobID, workerID uuid.UUID, status notification.WorkerStatus) (bool, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE worker_notifications
		 SET status = $4, action_required = false
		 WHERE id = $1 AND job_id = $2 AND worker_id = $3 AND status = $5`,
		id, jobID, workerID, status, notification.WorkerStatusUnread,
	)
	if err != nil {
		return false, wrap(tableWorkerNotifications, "update", err)
	}
	return n == 1, nil
}

func (r *PostgresWorkerNotificationRepository) RevertResponse(ctx context.Context, id, workerID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE worker_notifications
		 SET status = $3, action_required = true
		 WHERE id = $1 AND worker_id = $2`,
		id, workerID, notification.WorkerStatusUnread,
	)
	return wrap(tableWorkerNotifications, "update", err)
}

func (r *PostgresWorkerNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (notification.WorkerNotification, error) {
	var n notification.WorkerNotification
	row := r.db.QueryRow(ctx,
		`SELECT id, worker_id, job_id, type, title, message, created_at, status, action_required, action_type
		 FROM worker_notifications WHERE id = $1`,
		id,
	)
	if err := row.Scan(&n.ID, &n.WorkerID, &n.JobID, &n.Type, &n.Title, &n.Message, &n.CreatedAt, &n.Status, &n.ActionRequired, &n.ActionType); err != nil {
		return notification.WorkerNotification{}, wrap(tableWorkerNotifications, "fetch", err)
	}
	return n, nil
}
