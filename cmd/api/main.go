package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	httptransport "github.com/dtvk027/v0-civic-issue-reporter/internal/api/http"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/api/http/handlers"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/auth"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/config"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/events"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/observability"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/persistence"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/repository"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/service"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	issueRepo := repository.NewIssueRepository(pool)
	updateRepo := repository.NewIssueUpdateRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	instanceID := uuid.NewString()
	logger.Info("feed instance", zap.String("instance_id", instanceID))

	hub := events.NewHub(events.HubOptions{
		SubscriberBuffer: cfg.Feed.SubscriberBuffer,
		Deduper:          events.NewRedisDeduper(redis.Client, instanceID, cfg.Feed.DedupTTL()),
		Metrics:          metrics,
		Logger:           logger,
	})
	defer hub.Close()

	feedWorker := worker.NewFeedWorker(hub, feedSource(cfg, pg, redis, logger), feedRelay(cfg, redis, logger), logger)
	feedWorker.Start(ctx)

	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:   issueRepo,
		UpdateRepo:  updateRepo,
		ProfileRepo: profileRepo,
		Logger:      logger,
	})
	analyticsService := service.NewAnalyticsService(issueRepo, profileRepo, nil)
	notificationService := service.NewNotificationService(notificationRepo, logger, cfg.Live.NotificationLimit)
	reportService := service.NewReportService(issueRepo, metrics, nil)
	liveService := service.NewLiveService(service.LiveDependencies{
		Feed:             hub,
		Analytics:        analyticsService,
		NotificationRepo: notificationRepo,
		UpdateRepo:       updateRepo,
		Config:           cfg.Live,
		Logger:           logger,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, 0)
	authMiddleware := auth.NewAuthMiddleware(tokens, profileRepo)
	issueLimiter := auth.IssueRateLimiter(
		auth.NewRedisQuotaStore(redis.Client, "civic:issues:daily"),
		cfg.Issues.DailyReportLimit,
		24*time.Hour,
		logger,
	)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	validator := handlers.NewRequestValidator()
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, hub),
		Issues:         handlers.NewIssuesHandler(issueService, validator),
		Admin:          handlers.NewAdminHandler(issueService, analyticsService, validator),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Reports:        handlers.NewReportsHandler(reportService),
		Live:           handlers.NewLiveHandler(ctx, liveService, issueService, logger),
		AuthMiddleware: authMiddleware,
		IssueLimiter:   issueLimiter,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	// ends live streams and the feed goroutines before the server drains
	cancel()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	feedWorker.Wait()
}

func feedSource(cfg *config.Config, pg *persistence.Postgres, redis *persistence.Redis, logger *zap.Logger) events.Source {
	switch cfg.Feed.Source {
	case config.FeedSourcePostgres:
		return events.NewPostgresSource(pg.PoolHandle(), cfg.Feed.PostgresChannel, cfg.Feed.ReconnectDelay(), logger)
	case config.FeedSourceRedis:
		return events.NewRedisSource(redis.Client, cfg.Feed.RedisChannel, logger)
	default:
		logger.Warn("change feed disabled; live screens rely on periodic resync")
		return nil
	}
}

func feedRelay(cfg *config.Config, redis *persistence.Redis, logger *zap.Logger) worker.Relay {
	if !cfg.Feed.RelayToRedis || cfg.Feed.Source != config.FeedSourcePostgres {
		return nil
	}
	return events.NewRedisRelay(redis.Client, cfg.Feed.RedisChannel, logger)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
