package handler

import (
	"context"
	"errors"

	"skill-hire/internal/delivery/http/middleware"
	"skill-hire/internal/pkg/response"
	"skill-hire/internal/session"
	"skill-hire/internal/usecase/dashboard"

	"github.com/gofiber/fiber/v3"
)

type DashboardUsecase interface {
	Compose(ctx context.Context, sess session.Session) (dashboard.View, error)
}

type DashboardHandler struct {
	uc DashboardUsecase
}

func NewDashboardHandler(uc DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/dashboard", h.Dashboard)
}

func (h *DashboardHandler) Dashboard(c fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	view, err := h.uc.Compose(c.Context(), sess)
	if err != nil {
		if errors.Is(err, dashboard.ErrUnknownRole) {
			return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
		}
		return internalError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, view)
}
