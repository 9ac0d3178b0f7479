package repository

import (
	"context"
	"strings"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/business"

	"github.com/google/uuid"
)

const tableBusinesses = "businesses"

type BusinessRepository interface {
	Create(ctx context.Context, b business.Business) (business.Business, error)
	GetByID(ctx context.Context, id uuid.UUID) (business.Business, error)
	GetByEmail(ctx context.Context, email string) (business.Business, error)
}

type PostgresBusinessRepository struct {
	db database.Querier
}

func NewPostgresBusinessRepository(db database.Querier) *PostgresBusinessRepository {
	return &PostgresBusinessRepository{db: db}
}

func (r *PostgresBusinessRepository) Create(ctx context.Context, b business.Business) (business.Business, error) {
	var out business.Business
	row := r.db.QueryRow(ctx,
		`INSERT INTO businesses (name, email, phone, address)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, email, phone, address, created_at`,
		b.Name, strings.ToLower(strings.TrimSpace(b.Email)), b.Phone, b.Address,
	)
	if err := row.Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &out.Address, &out.CreatedAt); err != nil {
		return business.Business{}, wrap(tableBusinesses, "insert", err)
	}
	return out, nil
}

func (r *PostgresBusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (business.Business, error) {
	var b business.Business
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, phone, address, created_at FROM businesses WHERE id = $1`,
		id,
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Address, &b.CreatedAt); err != nil {
		return business.Business{}, wrap(tableBusinesses, "fetch", err)
	}
	return b, nil
}

func (r *PostgresBusinessRepository) GetByEmail(ctx context.Context, email string) (business.Business, error) {
	var b business.Business
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, phone, address, created_at FROM businesses WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email),
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Address, &b.CreatedAt); err != nil {
		return business.Business{}, wrap(tableBusinesses, "fetch", err)
	}
	return b, nil
}
