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

	"leaderboard_app/internal/api"
	"leaderboard_app/internal/middleware"
	"leaderboard_app/internal/repository"
	"leaderboard_app/internal/repository/memory"
	"leaderboard_app/internal/seed"
	"leaderboard_app/internal/service"
	"leaderboard_app/internal/worker"
	"leaderboard_app/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type store interface {
	service.Store
	seed.Repository
	Close() error
}

func main() {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	//nolint:errcheck
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize store", zap.Error(err))
	}
	//nolint:errcheck
	defer st.Close()

	_, err = seed.Run(ctx, st, cfg.Seed)
	if err != nil {
		zapLogger.Error("Failed to seed database", zap.Error(err))
	}

	svc := service.NewService(st, service.RandomRoller{}, cfg.Environment)

	if cfg.Audit.Enabled {
		auditWorker, err := worker.NewAuditWorker(svc.AuditService, cfg.Audit.Interval)
		if err != nil {
			zapLogger.Fatal("Failed to create audit worker", zap.Error(err))
		}
		err = auditWorker.Start(ctx)
		if err != nil {
			zapLogger.Fatal("Failed to start audit worker", zap.Error(err))
		}
		defer func() {
			if err := auditWorker.Stop(); err != nil {
				zapLogger.Error("Failed to stop audit worker", zap.Error(err))
			}
		}()
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.AccessLog())

	config := cors.DefaultConfig()
	config.AllowOrigins = cfg.Server.AllowedOrigins
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodOptions,
	}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	api.Register(router, svc)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Starting server",
			zap.String("addr", addr),
			zap.String("storage", st.Driver()),
			zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *Config) (store, error) {
	switch cfg.Storage.Driver {
	case driverMemory:
		logger.Logger().Warn("Using in-memory store, data will not survive a restart")
		return memory.New(), nil
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		repo, err := repository.New(connectCtx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
}
