package middleware

import (
	"context"
	"errors"
	"strings"

	"skill-hire/internal/domain/user"
	"skill-hire/internal/session"
	ucauth "skill-hire/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

const CtxSessionKey = "session"

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (session.Session, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		sess, err := m.auth.Authenticate(c.Context(), token)
		if err != nil {
			if errors.Is(err, ucauth.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxSessionKey, sess)
		return c.Next()
	}
}

// RequireRole rejects sessions whose role is not listed.
func RequireRole(roles ...user.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		sess, ok := SessionFrom(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		for _, r := range roles {
			if sess.Role == r {
				return c.Next()
			}
		}
		return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}
}

func SessionFrom(c fiber.Ctx) (session.Session, bool) {
	sess, ok := c.Locals(CtxSessionKey).(session.Session)
	return sess, ok
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
