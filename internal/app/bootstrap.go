package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"skill-hire/internal/config"
	"skill-hire/internal/delivery/http/handler"
	"skill-hire/internal/delivery/http/middleware"
	"skill-hire/internal/delivery/http/routes"
	v1 "skill-hire/internal/delivery/http/routes/v1"
	"skill-hire/internal/ws"
)

const migrateTimeout = time.Minute

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container, applies migrations when enabled and starts
// the background loops. The returned cleanup stops the loops and closes
// connections.
func Bootstrap(cfg config.Config, log logrus.FieldLogger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
		err := c.Migrate(ctx)
		cancel()
		if err != nil {
			_ = c.Close()
			return nil, nil, err
		}
	}

	app := New(c)
	stop := startBackground(c)

	return app, func() error {
		stop()
		return c.Close()
	}, nil
}

func startBackground(c *Container) func() {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	run := func(name string, fn func(ctx context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
			c.Logger.WithField("loop", name).Debug("background loop stopped")
		}()
	}

	run("ws_hub", c.Hub.Run)
	if c.Config.Realtime.Listen {
		run("pg_listener", func(ctx context.Context) {
			if err := c.Listener.Run(ctx); err != nil {
				c.Logger.WithError(err).Error("realtime listener stopped")
			}
		})
	}
	if c.Config.Posting.ReconcileInterval > 0 {
		run("reconciler", func(ctx context.Context) {
			c.Reconciler.Loop(ctx, c.Config.Posting.ReconcileInterval)
		})
	}

	return func() {
		cancel()
		wg.Wait()
	}
}

func registerGlobalMiddleware(app *fiber.App, log logrus.FieldLogger) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(log)
	app.Use(errMw.Middleware())

	accessMw := middleware.NewAccessLogMiddleware(log)
	app.Use(accessMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	limiter := middleware.NewRedisLimiter(c.Redis.Client())
	wsHandler := ws.NewHandler(c.Hub, c.Auth, c.Feed, c.AdminFeed, c.Logger.WithField("component", "ws"))

	routes.NewRegistry(v1.Handlers{
		Auth:      handler.NewAuthHandler(c.Auth),
		Dashboard: handler.NewDashboardHandler(c.Dashboard),
		Skills:    handler.NewSkillHandler(c.Skills),
		Business:  handler.NewBusinessHandler(c.Posting, c.Requests),
		Worker:    handler.NewWorkerHandler(c.Feed),
		Admin:     handler.NewAdminHandler(c.AdminFeed, c.Reconciler),
		Health:    handler.NewHealthHandler(c.DB, c.Redis),

		AuthMiddleware: middleware.NewAuthMiddleware(c.Auth),
		PostJobLimit:   middleware.RateLimit(limiter, "post_job", c.Config.Posting.RateLimit, c.Config.Posting.RateWindow),
		WebSocket:      wsHandler.HandleNotifications,
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
