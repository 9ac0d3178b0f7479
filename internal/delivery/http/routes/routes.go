package routes

import (
	v1 "skill-hire/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	v1 v1.Handlers
}

func NewRegistry(h v1.Handlers) *Registry {
	return &Registry{v1: h}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWebSocket(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.v1.Health != nil {
		r.v1.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerWebSocket(app *fiber.App) {
	if r.v1.WebSocket != nil {
		app.Get("/ws/notifications", r.v1.WebSocket)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}
