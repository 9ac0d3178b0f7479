package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"skill-hire/internal/domain/user"
)

var ErrNotFound = errors.New("session not found")

// Session is the authenticated identity attached to every request. RecordID
// points at the worker or business row for the user and is uuid.Nil when no
// such row could be resolved.
type Session struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	RecordID uuid.UUID `json:"record_id"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Role     user.Role `json:"role"`
	IssuedAt time.Time `json:"issued_at"`
}

func (s Session) HasRecord() bool {
	return s.RecordID != uuid.Nil
}

type Store interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Load(ctx context.Context, id uuid.UUID) (Session, error)
	Clear(ctx context.Context, id uuid.UUID) error
}

type ctxKey struct{}

func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
