package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"skill-hire/internal/delivery/http/middleware"
	"skill-hire/internal/pkg/response"
	"skill-hire/internal/pkg/validation"
	"skill-hire/internal/session"
)

func badRequest(err error) error {
	var data any
	if fields := validation.FieldsOf(err); len(fields) > 0 {
		data = fields
	}
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", data, err)
}

func internalError(err error) error {
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

func currentSession(c fiber.Ctx) (session.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return session.Session{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return sess, nil
}

func pathUUID(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}
