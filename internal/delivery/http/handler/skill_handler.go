package handler

import (
	"context"

	"skill-hire/internal/pkg/response"
	"skill-hire/internal/usecase/skills"

	"github.com/gofiber/fiber/v3"
)

type SkillUsecase interface {
	Availability(ctx context.Context) (skills.Result, error)
}

type SkillHandler struct {
	uc SkillUsecase
}

func NewSkillHandler(uc SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skills")
	grp.Get("/availability", h.Availability)
}

func (h *SkillHandler) Availability(c fiber.Ctx) error {
	res, err := h.uc.Availability(c.Context())
	if err != nil {
		return internalError(err)
	}

	msg := response.MessageOK
	if res.Degraded {
		msg = "Worker availability is temporarily unavailable"
	}
	return response.Success(c, fiber.StatusOK, msg, res)
}
