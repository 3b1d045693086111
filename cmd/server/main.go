package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pojokcurhat/survey-service/internal/cache"
	"github.com/pojokcurhat/survey-service/internal/config"
	"github.com/pojokcurhat/survey-service/internal/handlers"
	"github.com/pojokcurhat/survey-service/internal/repositories"
	"github.com/pojokcurhat/survey-service/internal/repositories/postgres"
	"github.com/pojokcurhat/survey-service/internal/services"
	"github.com/pojokcurhat/survey-service/internal/session"
	"github.com/pojokcurhat/survey-service/internal/utils"
	"github.com/pojokcurhat/survey-service/internal/validator"
	"github.com/pojokcurhat/survey-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogLogger := utils.ToSlogLogger(logger)

	configured := cfg.IsConfigured()
	if !configured {
		logger.Warn("No database backend configured, running in demo mode")
	}

	var repo repositories.Repository
	if configured {
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			logger.Error("Database connection failed", "error", err)
			os.Exit(1)
		}
		repo = postgres.NewRepository(db)
	}

	cacheService := cache.CacheService(cache.NewNoopCache())
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, analytics cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			zapLogger, _ := zap.NewProduction()
			defer zapLogger.Sync()
			cacheService = cache.NewRedisCache(redisClient, zapLogger)
		}
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	v := validator.New()

	submissionService := services.NewSubmissionService(repo, slogLogger, v, publisher, services.SubmissionConfig{
		Configured: configured,
		Timeout:    cfg.QueryTimeout,
	})
	analyticsService := services.NewAnalyticsService(repo, slogLogger, cacheService, services.AnalyticsConfig{
		Configured: configured,
		Timeout:    cfg.QueryTimeout,
		CacheTTL:   cfg.CacheTTL,
	})
	exportService := services.NewExportService(analyticsService, slogLogger, publisher)

	store := session.NewStore(30 * time.Minute)
	stopSweeper := make(chan struct{})
	store.StartSweeper(5*time.Minute, stopSweeper)
	defer close(stopSweeper)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	hm := handlers.NewHandlerManager(
		submissionService,
		analyticsService,
		exportService,
		store,
		v,
		logger,
		cfg.AdminToken,
	)
	hm.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server listening",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"configured", configured)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
