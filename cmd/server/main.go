package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mokabulens/internal/app/config"
	"mokabulens/internal/app/di"
	"mokabulens/internal/app/router"
	"mokabulens/internal/feature/stocks/adapters"
	stockhandler "mokabulens/internal/feature/stocks/transport/handler"
	"mokabulens/internal/feature/stocks/usecase"
	infradb "mokabulens/internal/platform/db"
	"mokabulens/internal/platform/http/handler"
	"mokabulens/internal/platform/logger"
	infraredis "mokabulens/internal/platform/redis"
	"mokabulens/internal/shared/ratelimiter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(cfg.Database, lg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}
	if cfg.RunMigrations {
		if err := infradb.Migrate(db, adapters.Models()...); err != nil {
			return err
		}
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis, lg); err != nil {
		lg.Warn("Redis unavailable. Running without cache.", zap.Error(err))
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				lg.Error("Failed to close Redis client", zap.Error(err))
			}
		}()
	}

	// Repository
	securities := di.NewSecurityRepository(db, rdb, cfg.CacheTTL, lg)
	prices := adapters.NewPriceBarRepository(db)
	provider := di.NewQuoteProvider(cfg.Provider.Yahoo, lg)

	// Usecase
	stockUC := usecase.NewStockUsecase(securities, prices, provider,
		usecase.WithLogger(lg),
		usecase.WithRateLimiter(ratelimiter.NewRateLimiter(cfg.Provider.RateLimit, time.Minute, lg)),
		usecase.WithMarketSuffix(cfg.Provider.MarketSuffix),
	)

	// Handler
	stockH := stockhandler.NewStockHandler(stockUC)
	platformH := handler.NewPlatformHandler(handler.ServiceInfo{
		Version:     cfg.Version,
		Environment: cfg.Environment,
		API:         handler.APIInfo{Host: cfg.API.Host, Port: cfg.API.Port, Debug: cfg.API.Debug},
		Database: handler.DatabaseInfo{
			Host: cfg.Database.Host,
			Port: cfg.Database.Port,
			Name: cfg.Database.Name,
			User: cfg.Database.User,
		},
	})

	if !cfg.API.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// ルータ生成
	r := router.NewRouter(router.Options{
		CORSOrigins: cfg.API.CORSOrigins,
		RequireAuth: cfg.Security.RequireAuth,
		JWTSecret:   cfg.Security.JWTSecret,
	}, lg, platformH, stockH)

	if cfg.Security.JWTSecret == "" {
		lg.Warn("SECURITY_JWT_SECRET is not set. Set a strong secret in production.")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("MokabuLens API starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment),
			zap.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
