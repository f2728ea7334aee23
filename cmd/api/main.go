package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/bookadzone/launch-api/internal/api/http"
	"github.com/bookadzone/launch-api/internal/api/http/handlers"
	"github.com/bookadzone/launch-api/internal/config"
	"github.com/bookadzone/launch-api/internal/events"
	"github.com/bookadzone/launch-api/internal/geo"
	"github.com/bookadzone/launch-api/internal/mailer"
	"github.com/bookadzone/launch-api/internal/notifier"
	"github.com/bookadzone/launch-api/internal/observability"
	"github.com/bookadzone/launch-api/internal/persistence"
	"github.com/bookadzone/launch-api/internal/repository"
	"github.com/bookadzone/launch-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	signupRepo := repository.NewSignupRepository(pool)
	subscriberRepo := repository.NewSubscriberRepository(pool)

	sender, err := mailer.NewSMTPSender(cfg.SMTP, logger)
	if err != nil {
		logger.Fatal("failed to init mail transport", zap.Error(err))
	}

	resolver := geo.NewCachedResolver(
		geo.NewChainResolver(cfg.Geo.ProviderTimeout(), logger),
		redis.Client,
		cfg.Geo.CacheTTL(),
		logger,
	)

	dispatcher := events.NewInMemoryDispatcher()
	notifier.NewAudit(dispatcher, logger).RegisterHandlers()

	signupService := service.NewSignupService(cfg.Signup, service.SignupDependencies{
		SignupRepo: signupRepo,
		Resolver:   resolver,
		Mailer:     sender,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	subscriptionService := service.NewSubscriptionService(service.SubscriptionDependencies{
		SubscriberRepo: subscriberRepo,
		Mailer:         sender,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.IsProduction())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Signups:   handlers.NewSignupHandler(signupService),
		Subscribe: handlers.NewSubscribeHandler(subscriptionService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
