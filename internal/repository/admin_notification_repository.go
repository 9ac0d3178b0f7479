package repository

import (
	"context"
	"fmt"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/notification"

	"github.com/google/uuid"
)

const tableAdminNotifications = "admin_notifications"

const adminNotificationColumns = `id, type, COALESCE(job_id, '00000000-0000-0000-0000-000000000000'::uuid),
	COALESCE(business_id, '00000000-0000-0000-0000-000000000000'::uuid), business_name, skill,
	workers_needed, title, message, created_at, status`

type AdminNotificationRepository interface {
	Create(ctx context.Context, n notification.AdminNotification) (notification.AdminNotification, error)
	ListAll(ctx context.Context) ([]notification.AdminNotification, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status notification.AdminStatus) (bool, error)
	ExistsForJob(ctx context.Context, jobID uuid.UUID) (bool, error)
	CountByStatus(ctx context.Context) (map[notification.AdminStatus]int, error)
}

type PostgresAdminNotificationRepository struct {
	db database.Querier
}

func NewPostgresAdminNotificationRepository(db database.Querier) *PostgresAdminNotificationRepository {
	return &PostgresAdminNotificationRepository{db: db}
}

func (r *PostgresAdminNotificationRepository) Create(ctx context.Context, n notification.AdminNotification) (notification.AdminNotification, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO admin_notifications
			(type, job_id, business_id, business_name, skill, workers_needed, title, message, created_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (job_id) WHERE type = 'new_job' DO NOTHING
		 RETURNING `+adminNotificationColumns,
		n.Type, n.JobID, n.BusinessID, n.BusinessName, n.Skill, n.WorkersNeeded, n.Title, n.Message, n.CreatedAt, n.Status,
	)
	created, err := scanAdminNotification(row)
	if err != nil {
		// DO NOTHING returns no row when the job already has its new_job entry.
		if isNoRows(err) {
			return notification.AdminNotification{}, &OpError{
				Table: tableAdminNotifications,
				Op:    "insert",
				Err:   fmt.Errorf("%w: job %s already has a new_job notification", ErrDuplicate, n.JobID),
			}
		}
		return notification.AdminNotification{}, wrap(tableAdminNotifications, "insert", err)
	}
	return created, nil
}

func (r *PostgresAdminNotificationRepository) ListAll(ctx context.Context) ([]notification.AdminNotification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+adminNotificationColumns+` FROM admin_notifications ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, wrap(tableAdminNotifications, "fetch", err)
	}
	defer rows.Close()

	out := make([]notification.AdminNotification, 0)
	for rows.Next() {
		n, err := scanAdminNotification(rows)
		if err != nil {
			return nil, wrap(tableAdminNotifications, "fetch", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(tableAdminNotifications, "fetch", err)
	}
	return out, nil
}

func (r *PostgresAdminNotificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status notification.AdminStatus) (bool, error) {
	n, err := r.db.Exec(ctx, `UPDATE admin_notifications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return false, wrap(tableAdminNotifications, "update", err)
	}
	return n == 1, nil
}

func (r *PostgresAdminNotificationRepository) ExistsForJob(ctx context.Context, jobID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM admin_notifications WHERE job_id = $1)`, jobID)
	if err := row.Scan(&exists); err != nil {
		return false, wrap(tableAdminNotifications, "fetch", err)
	}
	return exists, nil
}

func (r *PostgresAdminNotificationRepository) CountByStatus(ctx context.Context) (map[notification.AdminStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM admin_notifications GROUP BY status`)
	if err != nil {
		return nil, wrap(tableAdminNotifications, "fetch", err)
	}
	defer rows.Close()

	out := map[notification.AdminStatus]int{}
	for rows.Next() {
		var st notification.AdminStatus
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, wrap(tableAdminNotifications, "fetch", err)
		}
		out[st] = n
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(tableAdminNotifications, "fetch", err)
	}
	return out, nil
}

func scanAdminNotification(row database.Row) (notification.AdminNotification, error) {
	var n notification.AdminNotification
	err := row.Scan(
		&n.ID, &n.Type, &n.JobID, &n.BusinessID, &n.BusinessName, &n.Skill,
		&n.WorkersNeeded, &n.Title, &n.Message, &n.CreatedAt, &n.Status,
	)
	return n, err
}
