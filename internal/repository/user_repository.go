package repository

import (
	"context"
	"strings"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/user"

	"github.com/google/uuid"
)

const tableUsers = "users"

type UserRepository interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByPhone(ctx context.Context, phone string) (user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type PostgresUserRepository struct {
	db database.Querier
}

func NewPostgresUserRepository(db database.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, phone, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, phone, password_hash, role, created_at, updated_at`,
		u.Email, u.Phone, u.PasswordHash, u.Role,
	)
	created, err := scanUser(row)
	if err != nil {
		return user.User{}, wrap(tableUsers, "insert", err)
	}
	return created, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT id, email, phone, password_hash, role, created_at, updated_at FROM users WHERE id = $1`,
		id,
	))
	if err != nil {
		return user.User{}, wrap(tableUsers, "fetch", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT id, email, phone, password_hash, role, created_at, updated_at FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	))
	if err != nil {
		return user.User{}, wrap(tableUsers, "fetch", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByPhone(ctx context.Context, phone string) (user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT id, email, phone, password_hash, role, created_at, updated_at
		 FROM users WHERE phone = $1 ORDER BY created_at LIMIT 1`,
		strings.TrimSpace(phone),
	))
	if err != nil {
		return user.User{}, wrap(tableUsers, "fetch", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	if err := row.Scan(&exists); err != nil {
		return false, wrap(tableUsers, "fetch", err)
	}
	return exists, nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
