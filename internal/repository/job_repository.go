package repository

import (
	"context"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/job"

	"github.com/google/uuid"
)

const tableJobs = "jobs"

const jobColumns = `id, title, company, location, job_type, category, salary, description,
	requirements, contact_email, workers_needed, posted_at, status, business_id`

type JobRepository interface {
	Create(ctx context.Context, j job.Job) (job.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]job.Job, error)
}

type PostgresJobRepository struct {
	db database.Querier
}

func NewPostgresJobRepository(db database.Querier) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (title, company, location, job_type, category, salary, description,
			requirements, contact_email, workers_needed, posted_at, status, business_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+jobColumns,
		j.Title, j.Company, j.Location, j.JobType, j.Category, j.Salary, j.Description,
		j.Requirements, j.ContactEmail, j.WorkersNeeded, j.PostedAt, j.Status, j.BusinessID,
	)
	created, err := scanJob(row)
	if err != nil {
		return job.Job{}, wrap(tableJobs, "insert", err)
	}
	return created, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		return job.Job{}, wrap(tableJobs, "fetch", err)
	}
	return j, nil
}

func (r *PostgresJobRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE business_id = $1 ORDER BY posted_at DESC`,
		businessID,
	)
	if err != nil {
		return nil, wrap(tableJobs, "fetch", err)
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, wrap(tableJobs, "fetch", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(tableJobs, "fetch", err)
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.JobType, &j.Category, &j.Salary, &j.Description,
		&j.Requirements, &j.ContactEmail, &j.WorkersNeeded, &j.PostedAt, &j.Status, &j.BusinessID,
	)
	return j, err
}
