package handler

import (
	"context"
	"time"

	"skill-hire/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the database as required and the cache as optional:
// a missing cache degrades the service but does not fail the check.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := healthResponse{Status: "ok", Database: probe(ctx, h.db), Cache: probe(ctx, h.cache)}
	if out.Cache != "up" {
		out.Status = "degraded"
	}
	if out.Database != "up" {
		out.Status = "down"
		return response.Error(c, fiber.StatusServiceUnavailable, "Service unavailable", out)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
