package v1

import (
	"skill-hire/internal/delivery/http/handler"
	"skill-hire/internal/delivery/http/middleware"
	"skill-hire/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

// Handlers is everything the v1 API mounts. Nil handlers are skipped.
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Skills    *handler.SkillHandler
	Business  *handler.BusinessHandler
	Worker    *handler.WorkerHandler
	Admin     *handler.AdminHandler
	Health    *handler.HealthHandler

	AuthMiddleware *middleware.AuthMiddleware
	PostJobLimit   fiber.Handler
	WebSocket      fiber.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}
	if h.AuthMiddleware == nil {
		return
	}

	protected := r.Group("", h.AuthMiddleware.Middleware())
	if h.Auth != nil {
		h.Auth.RegisterProtectedRoutes(protected)
	}
	if h.Dashboard != nil {
		h.Dashboard.RegisterRoutes(protected)
	}
	if h.Skills != nil {
		h.Skills.RegisterRoutes(protected)
	}

	if h.Business != nil {
		h.Business.RegisterRoutes(protected.Group("/business", middleware.RequireRole(user.RoleBusiness)), h.PostJobLimit)
	}
	if h.Worker != nil {
		h.Worker.RegisterRoutes(protected.Group("/worker", middleware.RequireRole(user.RoleWorker)))
	}
	if h.Admin != nil {
		h.Admin.RegisterRoutes(protected.Group("/admin", middleware.RequireRole(user.RoleAdmin)))
	}
}
