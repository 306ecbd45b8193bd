package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/parentchild/account-service/internal/api/http"
	"github.com/parentchild/account-service/internal/api/http/handlers"
	"github.com/parentchild/account-service/internal/auth"
	"github.com/parentchild/account-service/internal/config"
	"github.com/parentchild/account-service/internal/events"
	"github.com/parentchild/account-service/internal/notify"
	"github.com/parentchild/account-service/internal/observability"
	"github.com/parentchild/account-service/internal/persistence"
	"github.com/parentchild/account-service/internal/repository"
	"github.com/parentchild/account-service/internal/scheduler"
	"github.com/parentchild/account-service/internal/service"
	"github.com/parentchild/account-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

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
		if err := persistence.RunMigrations(pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(pool)
	childRepo := repository.NewChildRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.SecretKey,
		auth.WithLifetimes(cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, cfg.Auth.ActivationTokenTTL))
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	dispatcher := events.NewInMemoryDispatcher(logger)
	jobs := scheduler.New(logger,
		scheduler.WithMetrics(metrics),
		scheduler.WithJobTimeout(cfg.Notification.JobTimeout))
	mailer := notify.NewMailer(cfg.Email, cfg.Notification.SendAttempts, logger)

	notificationService := service.NewNotificationService(dispatcher, jobs, mailer, userRepo, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	deps := service.AuthDependencies{
		UserRepo:   userRepo,
		Hasher:     hasher,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	}
	authService := service.NewAuthService(deps)
	parentService := service.NewParentService(deps)
	childService := service.NewChildService(childRepo, dispatcher, logger)

	app := httptransport.NewApp(cfg.App)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Parents:        handlers.NewParentHandler(parentService),
		Children:       handlers.NewChildHandler(childService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	if pending := jobs.Pending(); pending > 0 {
		logger.Warn("dropping scheduled jobs on exit", zap.Int("pending", pending))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
