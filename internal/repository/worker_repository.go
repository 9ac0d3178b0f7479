package repository

import (
	"context"
	"strings"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/worker"

	"github.com/google/uuid"
)

const tableWorkers = "workers"

const workerColumns = `id, name, email, phone, skill, experience, rating::float8, status, created_at`

type WorkerRepository interface {
	Create(ctx context.Context, w worker.Worker) (worker.Worker, error)
	GetByID(ctx context.Context, id uuid.UUID) (worker.Worker, error)
	GetByEmail(ctx context.Context, email string) (worker.Worker, error)
	GetByPhone(ctx context.Context, phone string) (worker.Worker, error)
	FindBySkill(ctx context.Context, skill string) ([]worker.Worker, error)
	FindAvailableBySkill(ctx context.Context, skill string, limit int) ([]worker.Worker, error)
	ListAvailable(ctx context.Context) ([]worker.Worker, error)
}

type PostgresWorkerRepository struct {
	db database.Querier
}

func NewPostgresWorkerRepository(db database.Querier) *PostgresWorkerRepository {
	return &PostgresWorkerRepository{db: db}
}

func (r *PostgresWorkerRepository) Create(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	if w.Status == "" {
		w.Status = worker.StatusAvailable
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO workers (name, email, phone, skill, experience, rating, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+workerColumns,
		w.Name, strings.ToLower(strings.TrimSpace(w.Email)), strings.TrimSpace(w.Phone), w.Skill, w.Experience, w.Rating, w.Status,
	)
	created, err := scanWorker(row)
	if err != nil {
		return worker.Worker{}, wrap(tableWorkers, "insert", err)
	}
	return created, nil
}

func (r *PostgresWorkerRepository) GetByID(ctx context.Context, id uuid.UUID) (worker.Worker, error) {
	w, err := scanWorker(r.db.QueryRow(ctx, `SELECT `+workerColumns+` FROM workers WHERE id = $1`, id))
	if err != nil {
		return worker.Worker{}, wrap(tableWorkers, "fetch", err)
	}
	return w, nil
}

func (r *PostgresWorkerRepository) GetByEmail(ctx context.Context, email string) (worker.Worker, error) {
	w, err := scanWorker(r.db.QueryRow(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE lower(email) = lower($1) ORDER BY created_at LIMIT 1`,
		strings.TrimSpace(email),
	))
	if err != nil {
		return worker.Worker{}, wrap(tableWorkers, "fetch", err)
	}
	return w, nil
}

func (r *PostgresWorkerRepository) GetByPhone(ctx context.Context, phone string) (worker.Worker, error) {
	w, err := scanWorker(r.db.QueryRow(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE btrim(phone) = $1 ORDER BY created_at LIMIT 1`,
		strings.TrimSpace(phone),
	))
	if err != nil {
		return worker.Worker{}, wrap(tableWorkers, "fetch", err)
	}
	return w, nil
}

// FindBySkill matches the stored skill exactly, case included.
func (r *PostgresWorkerRepository) FindBySkill(ctx context.Context, skill string) ([]worker.Worker, error) {
	return r.list(ctx, `SELECT `+workerColumns+` FROM workers WHERE skill = $1 ORDER BY created_at`, skill)
}

func (r *PostgresWorkerRepository) FindAvailableBySkill(ctx context.Context, skill string, limit int) ([]worker.Worker, error) {
	if limit <= 0 {
		limit = 3
	}
	return r.list(ctx,
		`SELECT `+workerColumns+` FROM workers
		 WHERE skill = $1 AND status = $2
		 ORDER BY rating DESC, experience DESC
		 LIMIT $3`,
		skill, worker.StatusAvailable, limit,
	)
}

func (r *PostgresWorkerRepository) ListAvailable(ctx context.Context) ([]worker.Worker, error) {
	return r.list(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE status = $1 ORDER BY name`,
		worker.StatusAvailable,
	)
}

func (r *PostgresWorkerRepository) list(ctx context.Context, query string, args ...any) ([]worker.Worker, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(tableWorkers, "fetch", err)
	}
	defer rows.Close()

	out := make([]worker.Worker, 0)
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, wrap(tableWorkers, "fetch", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(tableWorkers, "fetch", err)
	}
	return out, nil
}

func scanWorker(row database.Row) (worker.Worker, error) {
	var w worker.Worker
	err := row.Scan(&w.ID, &w.Name, &w.Email, &w.Phone, &w.Skill, &w.Experience, &w.Rating, &w.Status, &w.CreatedAt)
	return w, err
}
