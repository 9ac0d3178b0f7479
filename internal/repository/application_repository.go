package repository

import (
	"context"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/application"

	"github.com/google/uuid"
)

const tableJobApplications = "job_applications"

type ApplicationRepository interface {
	Create(ctx context.Context, a application.Application) (application.Application, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]application.Application, error)
}

type PostgresApplicationRepository struct {
	db database.Querier
}

func NewPostgresApplicationRepository(db database.Querier) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) (application.Application, error) {
	var out application.Application
	row := r.db.QueryRow(ctx,
		`INSERT INTO job_applications (job_id, worker_id, status, applied_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, job_id, worker_id, status, applied_at`,
		a.JobID, a.WorkerID, a.Status, a.AppliedAt,
	)
	if err := row.Scan(&out.ID, &out.JobID, &out.WorkerID, &out.Status, &out.AppliedAt); err != nil {
		return application.Application{}, wrap(tableJobApplications, "insert", err)
	}
	return out, nil
}

func (r *PostgresApplicationRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]application.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, job_id, worker_id, status, applied_at
		 FROM job_applications
		 WHERE worker_id = $1
		 ORDER BY applied_at DESC`,
		workerID,
	)
	if err != nil {
		return nil, wrap(tableJobApplications, "fetch", err)
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		var a application.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.WorkerID, &a.Status, &a.AppliedAt); err != nil {
			return nil, wrap(tableJobApplications, "fetch", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(tableJobApplications, "fetch", err)
	}
	return out, nil
}
