package repository

import (
	"context"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/request"
)

const tableWorkerRequests = "worker_requests"

type WorkerRequestRepository interface {
	Create(ctx context.Context, req request.WorkerRequest) (request.WorkerRequest, error)
}

type PostgresWorkerRequestRepository struct {
	db database.Querier
}

func NewPostgresWorkerRequestRepository(db database.Querier) *PostgresWorkerRequestRepository {
	return &PostgresWorkerRequestRepository{db: db}
}

func (r *PostgresWorkerRequestRepository) Create(ctx context.Context, req request.WorkerRequest) (request.WorkerRequest, error) {
	var out request.WorkerRequest
	row := r.db.QueryRow(ctx,
		`INSERT INTO worker_requests
			(business_id, business_name, workers_needed, skill, priority, duration, description, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, business_id, business_name, workers_needed, skill, priority, duration, description, status, created_at`,
		req.BusinessID, req.BusinessName, req.WorkersNeeded, req.Skill, req.Priority, req.Duration,
		req.Description, req.Status, req.CreatedAt,
	)
	if err := row.Scan(
		&out.ID, &out.BusinessID, &out.BusinessName, &out.WorkersNeeded, &out.Skill, &out.Priority,
		&out.Duration, &out.Description, &out.Status, &out.CreatedAt,
	); err != nil {
		return request.WorkerRequest{}, wrap(tableWorkerRequests, "insert", err)
	}
	return out, nil
}
