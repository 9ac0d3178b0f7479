package seeder

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/user"
)

// AdminSeeder creates the admin login. Admins cannot self-register, so this
// is the only way one is created. An existing login is left untouched.
type AdminSeeder struct {
	Email    string
	Password string
}

func (AdminSeeder) Name() string { return "admin" }

func (s AdminSeeder) Run(ctx context.Context, db database.DB) error {
	email := strings.ToLower(strings.TrimSpace(s.Email))
	if email == "" || s.Password == "" {
		return fmt.Errorf("admin email and password are required")
	}
	if err := requireColumns(ctx, db, "users", "id", "email", "password_hash", "role"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = db.Exec(
		ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING`,
		email,
		string(hash),
		string(user.RoleAdmin),
	)
	return err
}
