package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"skill-hire/internal/config"
	"skill-hire/internal/database"
	"skill-hire/internal/database/migration"
	dbpostgres "skill-hire/internal/database/postgres"
	"skill-hire/internal/infrastructure/cache"
	"skill-hire/internal/pkg/jwt"
	"skill-hire/internal/pkg/logger"
	"skill-hire/internal/realtime"
	"skill-hire/internal/repository"
	"skill-hire/internal/session"
	"skill-hire/internal/usecase/adminfeed"
	"skill-hire/internal/usecase/auth"
	"skill-hire/internal/usecase/dashboard"
	"skill-hire/internal/usecase/feed"
	"skill-hire/internal/usecase/posting"
	"skill-hire/internal/usecase/requests"
	"skill-hire/internal/usecase/skills"
	"skill-hire/internal/ws"
)

// Container holds every long-lived dependency of the service.
type Container struct {
	Config config.Config
	Logger logrus.FieldLogger
	DB     database.DB
	Redis  *cache.Redis

	Broker   *realtime.Broker
	Listener *realtime.PGListener
	Hub      *ws.Hub

	Auth       *auth.Service
	Posting    *posting.Service
	Reconciler *posting.Reconciler
	Feed       *feed.Service
	AdminFeed  *adminfeed.Service
	Skills     *skills.Service
	Requests   *requests.Service
	Dashboard  *dashboard.Service
}

func NewContainer(cfg config.Config, log logrus.FieldLogger) (*Container, error) {
	log = logger.OrDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  cache.NewRedis(cfg.Redis, log.WithField("component", "cache")),
		Broker: realtime.NewBroker(log.WithField("component", "realtime")),
	}
	c.wire()
	return c, nil
}

func (c *Container) wire() {
	cfg := c.Config
	log := c.Logger

	users := repository.NewPostgresUserRepository(c.DB)
	workers := repository.NewPostgresWorkerRepository(c.DB)
	businesses := repository.NewPostgresBusinessRepository(c.DB)
	jobs := repository.NewPostgresJobRepository(c.DB)
	workerNotifications := repository.NewPostgresWorkerNotificationRepository(c.DB)
	adminNotifications := repository.NewPostgresAdminNotificationRepository(c.DB)
	applications := repository.NewPostgresApplicationRepository(c.DB)
	outbox := repository.NewPostgresOutboxRepository(c.DB)
	catalogue := repository.NewPostgresSkillRepository(c.DB)
	workerRequests := repository.NewPostgresWorkerRequestRepository(c.DB)

	tokens := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	var sessions session.Store = session.NewMemoryStore()
	if c.Redis.Available() {
		sessions = session.NewCacheStore(c.Redis)
	}
	c.Auth = auth.NewService(users, workers, businesses, sessions, tokens,
		cfg.JWT.RefreshExpiresIn, log.WithField("component", "auth"))

	c.Posting = posting.NewService(posting.Deps{
		Jobs:                jobs,
		Businesses:          businesses,
		Workers:             workers,
		WorkerNotifications: workerNotifications,
		AdminNotifications:  adminNotifications,
		Outbox:              outbox,
	}, log.WithField("component", "posting"))
	c.Reconciler = posting.NewReconciler(c.Posting, cfg.Posting.ReconcileBatch, cfg.Posting.ReconcileMaxAttempts,
		log.WithField("component", "reconciler"))
	c.Reconciler.SetWorkers(cfg.Posting.ReconcileWorkers)
	locker := cache.NewFallbackLocker(c.Redis)
	c.Reconciler.SetLocker(locker)

	c.Feed = feed.NewService(workerNotifications, applications, jobs, locker, c.Broker,
		log.WithField("component", "feed"))
	c.AdminFeed = adminfeed.NewService(adminNotifications, c.Broker, log.WithField("component", "adminfeed"))
	c.Skills = skills.NewService(catalogue, workers, c.Redis, cfg.Redis.TTL, log.WithField("component", "skills"))
	c.Skills.WatchWorkers(c.Broker)
	c.Requests = requests.NewService(workerRequests, businesses, workers, log.WithField("component", "requests"))
	c.Dashboard = dashboard.NewService(dashboard.Deps{
		Businesses: businesses,
		Workers:    workers,
		Jobs:       jobs,
		WorkerFeed: c.Feed,
		AdminFeed:  c.AdminFeed,
		Skills:     c.Skills,
	}, log.WithField("component", "dashboard"))

	c.Hub = ws.NewHub(log.WithField("component", "ws"))
	c.Listener = &realtime.PGListener{
		Source:  c.DB,
		Channel: cfg.Realtime.Channel,
		Broker:  c.Broker,
		Logger:  log.WithField("component", "pg_listener"),
	}
}

// Migrate applies pending embedded migrations.
func (c *Container) Migrate(ctx context.Context) error {
	if err := (migration.Runner{Logger: c.Logger}).Run(ctx, c.DB.SQLDB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.WithError(err).Warn("redis close failed")
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
