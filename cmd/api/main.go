package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/session-token-service/internal/api/http"
	"github.com/spec-kit/session-token-service/internal/api/http/handlers"
	"github.com/spec-kit/session-token-service/internal/auth"
	"github.com/spec-kit/session-token-service/internal/config"
	"github.com/spec-kit/session-token-service/internal/events"
	"github.com/spec-kit/session-token-service/internal/observability"
	"github.com/spec-kit/session-token-service/internal/persistence"
	"github.com/spec-kit/session-token-service/internal/repository"
	"github.com/spec-kit/session-token-service/internal/revocation"
	"github.com/spec-kit/session-token-service/internal/service"
	"github.com/spec-kit/session-token-service/internal/worker"
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

	dependencies := map[string]handlers.Pinger{}
	if pg.PoolHandle() != nil {
		dependencies["postgres"] = pg
	}

	var store revocation.Store
	switch cfg.Revocation.Backend {
	case config.RevocationBackendRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		dependencies["redis"] = rdb
		store = revocation.NewRedisStore(rdb.Client)
	case config.RevocationBackendPostgres:
		store = revocation.NewPostgresStore(pg.PoolHandle())
	default:
		store = revocation.NewMemoryStore()
	}
	logger.Info("revocation store selected", zap.String("backend", cfg.Revocation.Backend))

	metrics := observability.NewMetrics()

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime(), store,
		service.WithLogger(logger.Named("tokens")),
		service.WithObserver(metrics),
		service.WithRevocationTimeout(cfg.Revocation.Timeout()),
	)
	if err != nil {
		logger.Fatal("failed to init token service", zap.Error(err))
	}

	dispatcher := events.NewBus()
	service.NewAuditService(dispatcher, logger).RegisterHandlers()

	var users repository.UserRepository
	if pool := pg.PoolHandle(); pool != nil {
		users = repository.NewUserRepository(pool)
	} else {
		logger.Warn("no postgres configured; users are kept in memory")
		users = repository.NewInMemoryUserRepository()
	}

	authService := service.NewAuthService(service.AuthDependencies{
		Users:      users,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger.Named("auth"),
	})
	if cfg.Auth.AdminEmail != "" {
		if err := authService.SeedAdmin(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logger.Fatal("failed to seed admin", zap.Error(err))
		}
	}

	app := httptransport.NewApp(cfg.App.Name, logger, metrics)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, users),
	})

	var purgeDone <-chan struct{}
	if purger, ok := store.(revocation.Purger); ok {
		purgeDone = worker.StartPurgeWorker(ctx, purger, cfg.Revocation.PurgeInterval(), logger.Named("purge"))
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	if purgeDone != nil {
		<-purgeDone
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
