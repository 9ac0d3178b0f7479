package repository

import (
	"context"
	"time"

	"skill-hire/internal/database"

	"github.com/google/uuid"
)

const tablePostingOutbox = "posting_outbox"

// OutboxEntry is a best-effort posting step that failed and is waiting for
// the reconciler.
type OutboxEntry struct {
	ID         uuid.UUID
	JobID      uuid.UUID
	Step       string
	Attempts   int
	LastError  string
	CreatedAt  time.Time
	ResolvedAt *time.Time

	ClaimedUntil *time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, jobID uuid.UUID, step string, cause string) error
	ClaimPending(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]OutboxEntry, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string) error
}

type PostgresOutboxRepository struct {
	db database.Querier
}

func NewPostgresOutboxRepository(db database.Querier) *PostgresOutboxRepository {
	return &PostgresOutboxRepository{db: db}
}

func (r *PostgresOutboxRepository) Enqueue(ctx context.Context, jobID uuid.UUID, step string, cause string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO posting_outbox (job_id, step, last_error) VALUES ($1, $2, $3)`,
		jobID, step, cause,
	)
	return wrap(tablePostingOutbox, "insert", err)
}

// ClaimPending leases up to limit unresolved entries to the caller. Rows
// locked or leased by another reconciler are skipped, so concurrent passes
// never replay the same entry. The lease ends on MarkResolved, MarkFailed or
// expiry.
func (r *PostgresOutboxRepository) ClaimPending(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]OutboxEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`UPDATE posting_outbox o
		 SET claimed_until = now() + make_interval(secs => $3)
		 FROM (
			SELECT id FROM posting_outbox
			WHERE resolved_at IS NULL AND attempts < $1
			  AND (claimed_until IS NULL OR claimed_until < now())
			ORDER BY created_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		 ) picked
		 WHERE o.id = picked.id
		 RETURNING o.id, o.job_id, o.step, o.attempts, o.last_error, o.created_at, o.resolved_at, o.claimed_until`,
		maxAttempts, limit, lease.Seconds(),
	)
	if err != nil {
		return nil, wrap(tablePostingOutbox, "claim", err)
	}
	defer rows.Close()

	out := make([]OutboxEntry, 0)
	for rows.Next() {
		var e OutboxEntry
		if err := rows.Scan(&e.ID, &e.JobID, &e.Step, &e.Attempts, &e.LastError, &e.CreatedAt, &e.ResolvedAt, &e.ClaimedUntil); err != nil {
			return nil, wrap(tablePostingOutbox, "claim", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(tablePostingOutbox, "claim", err)
	}
	return out, nil
}

func (r *PostgresOutboxRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE posting_outbox SET attempts = attempts + 1, resolved_at = now(), claimed_until = NULL WHERE id = $1`,
		id,
	)
	return wrap(tablePostingOutbox, "update", err)
}

func (r *PostgresOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE posting_outbox SET attempts = attempts + 1, last_error = $2, claimed_until = NULL WHERE id = $1`,
		id, cause,
	)
	return wrap(tablePostingOutbox, "update", err)
}
