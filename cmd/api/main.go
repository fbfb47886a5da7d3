package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/akyravish/secure-user-service/internal/api/http"
	"github.com/akyravish/secure-user-service/internal/api/http/handlers"
	"github.com/akyravish/secure-user-service/internal/auth"
	"github.com/akyravish/secure-user-service/internal/config"
	"github.com/akyravish/secure-user-service/internal/events"
	"github.com/akyravish/secure-user-service/internal/observability"
	"github.com/akyravish/secure-user-service/internal/persistence"
	"github.com/akyravish/secure-user-service/internal/ratelimit"
	"github.com/akyravish/secure-user-service/internal/repository"
	"github.com/akyravish/secure-user-service/internal/service"
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

	producer := events.NewProducer(cfg.Kafka, logger)
	defer producer.Close() //nolint:errcheck

	consumer := events.NewConsumer(cfg.Kafka, logger)
	go consumer.Run(ctx)

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), cfg.Auth.CookieName)
	userService := service.NewUserService(userRepo, producer, tokenMgr, cfg.Auth.BcryptCost, logger)
	authMiddleware := auth.NewMiddleware(tokenMgr, userRepo)

	metrics := observability.NewMetrics()
	globalLimiter := ratelimit.New(redis.Client, cfg.RateLimit.Window(), cfg.RateLimit.Max, logger)
	loginLimiter := ratelimit.NewScoped(redis.Client, "login", cfg.RateLimit.Window(), cfg.RateLimit.LoginMax, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.App.RequestTimeout(),
		IdleTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
	})

	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:     logger,
		Metrics:    metrics,
		Limiter:    globalLimiter,
		Timeout:    cfg.App.RequestTimeout(),
		Production: cfg.App.IsProduction(),
	})

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	usersHandler := handlers.NewUsersHandler(userService)
	authHandler := handlers.NewAuthHandler(userService, cfg.App.IsProduction())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          usersHandler,
		Auth:           authHandler,
		AuthMiddleware: authMiddleware,
		LoginLimiter:   loginLimiter,
		Metrics:        metrics,
	})

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
	_ = consumer.Close()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
