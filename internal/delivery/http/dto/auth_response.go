package dto

import (
	"time"

	"github.com/google/uuid"

	"skill-hire/internal/domain/user"
)

type AuthResponse struct {
	User         user.User       `json:"user"`
	Session      SessionResponse `json:"session"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

type SessionResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	RecordID  *uuid.UUID `json:"record_id"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      user.Role  `json:"role"`
	IssuedAt  time.Time  `json:"issued_at"`
	HasRecord bool       `json:"has_record"`
}
