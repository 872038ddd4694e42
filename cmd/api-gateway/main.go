package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal/internal/fallback"
	"github.com/noah-isme/sma-portal/internal/handler"
	"github.com/noah-isme/sma-portal/internal/repository"
	"github.com/noah-isme/sma-portal/internal/router"
	"github.com/noah-isme/sma-portal/internal/service"
	"github.com/noah-isme/sma-portal/migrations"
	"github.com/noah-isme/sma-portal/pkg/cache"
	"github.com/noah-isme/sma-portal/pkg/config"
	"github.com/noah-isme/sma-portal/pkg/database"
	"github.com/noah-isme/sma-portal/pkg/logger"
)

// @title SMA Portal Record API
// @version 1.0.0
// @description Role-aware record service behind the school portal
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	validate := validator.New()
	checks := map[string]handler.Check{}

	var (
		records service.RecordStore
		users   service.UserStore
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close()
		if err := database.Migrate(ctx, db, migrations.FS); err != nil {
			return err
		}
		records = repository.NewRecordRepository(db)
		users = repository.NewUserRepository(db)
		checks["database"] = db.PingContext
	case config.StorageMemory, "":
		records = repository.NewMemoryRecordRepository()
		users = repository.NewMemoryUserRepository()
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, list caching disabled", zap.Error(err))
		} else {
			redisRepo := repository.NewCacheRepository(client, "sma-portal", logr)
			defer redisRepo.Close() //nolint:errcheck
			cacheRepo = redisRepo
			checks["redis"] = redisRepo.Ping
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo != nil)

	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	recordSvc := service.NewRecordService(records, validate, cacheSvc, metrics, logr)

	if cfg.Storage.SeedSamples {
		if err := recordSvc.Seed(ctx, fallback.For); err != nil {
			return err
		}
	}

	engine := router.New(router.Options{
		Config:  cfg,
		Logger:  logr,
		Auth:    authSvc,
		Records: recordSvc,
		Metrics: metrics,
		Checks:  checks,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("storage", cfg.Storage.Driver))
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

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
