package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/edulingo/backend/api/handler"
	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/internal/config"
	"github.com/edulingo/backend/internal/infrastructure/factlog"
	"github.com/edulingo/backend/internal/infrastructure/monitor"
	pgInfra "github.com/edulingo/backend/internal/infrastructure/postgres"
	redisInfra "github.com/edulingo/backend/internal/infrastructure/redis"
	"github.com/edulingo/backend/internal/middleware"
	"github.com/edulingo/backend/internal/router"
	"github.com/edulingo/backend/internal/services/lifecycle"
	"github.com/edulingo/backend/pkg/httpcontext"
	"github.com/edulingo/backend/pkg/logger"
	"github.com/edulingo/backend/repository/memory"
	pgRepo "github.com/edulingo/backend/repository/postgres"
	redisRepo "github.com/edulingo/backend/repository/redis"
	ledgerUC "github.com/edulingo/backend/usecase/ledger"
	projectorUC "github.com/edulingo/backend/usecase/projector"
	registryUC "github.com/edulingo/backend/usecase/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	collector, err := domain.NormalizeIdentity(cfg.Registry.Collector)
	if err != nil {
		zapLogger.Fatal("invalid registry collector identity", zap.String("collector", cfg.Registry.Collector))
	}

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.Context(context.Background())
	defer stop()

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	factStore, err := factlog.Open(cfg.FactLog.Path)
	if err != nil {
		zapLogger.Fatal("failed to open fact log", zap.Error(err))
	}
	manager.Register("fact_log", func(ctx context.Context) error {
		return factStore.Close()
	})

	mon := monitor.New(pool, redisClient, factStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	profileRepo := pgRepo.NewProfileRepository(pool)
	listingStore := memory.NewListingStore()
	tokenStore := memory.NewTokenStore()
	viewRepo := redisRepo.NewViewRepository(redisClient)

	registry := registryUC.New(profileRepo, listingStore, tokenStore, factStore, collector,
		logger.WithComponent(zapLogger, "registry"))
	ledger := ledgerUC.New(tokenStore, logger.WithComponent(zapLogger, "ledger"))

	projector := projectorUC.New(factStore, factStore, viewRepo,
		logger.WithComponent(zapLogger, "projector"),
		projectorUC.Config{
			Consumer:  cfg.Projector.Consumer,
			Interval:  cfg.Projector.Interval,
			BatchSize: cfg.Projector.BatchSize,
		})
	if err := projector.Start(appCtx); err != nil {
		zapLogger.Fatal("projector start failed", zap.Error(err))
	}
	manager.Register("projector", func(ctx context.Context) error {
		projector.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		User:    apiHandler.NewUserHandler(registry, ctxAdapter, zapLogger),
		Listing: apiHandler.NewListingHandler(registry, ctxAdapter, zapLogger),
		Token:   apiHandler.NewTokenHandler(ledger, collector, ctxAdapter, zapLogger, cfg.Bootstrap.MintEnabled),
		Feed:    apiHandler.NewFeedHandler(factStore, viewRepo, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.IdentityAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
