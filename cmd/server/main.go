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

	"github.com/SAP-F-2025/quality-service/internal/cache"
	"github.com/SAP-F-2025/quality-service/internal/config"
	"github.com/SAP-F-2025/quality-service/internal/events"
	"github.com/SAP-F-2025/quality-service/internal/handlers"
	"github.com/SAP-F-2025/quality-service/internal/metrics"
	"github.com/SAP-F-2025/quality-service/internal/repositories"
	"github.com/SAP-F-2025/quality-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quality-service/internal/repositories/xlsx"
	"github.com/SAP-F-2025/quality-service/internal/services"
	"github.com/SAP-F-2025/quality-service/internal/utils"
	"github.com/SAP-F-2025/quality-service/internal/validator"
	"github.com/SAP-F-2025/quality-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

const reaperInterval = time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	v := validator.New()
	if err := v.ValidateStruct(cfg); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := utils.NewLogger(cfg.IsProduction())
	slogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	campaigns, err := newCampaignRepository(cfg, logger)
	if err != nil {
		logger.Error("Failed to set up campaign source", "source", cfg.CampaignSource, "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	checkpoints := cache.NewCheckpointStore(cache.NewRedisCache(redisClient, logger), cfg.CheckpointTTL)

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher, verdicts will not be forwarded", "error", err)
		publisher = events.NewMockEventPublisher(slogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	m := metrics.New()
	sessionService := services.NewSessionService(services.SessionServiceConfig{
		Quality:     cfg.Quality,
		IdleTimeout: cfg.SessionIdleTimeout,
	}, campaigns, checkpoints, publisher, m, v, slogger)
	defer sessionService.Close()

	go sessionService.RunReaper(ctx, reaperInterval)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if engine, ok := binding.Validator.Engine().(*playground.Validate); ok {
		validator.RegisterCustomValidators(engine)
	}

	router := gin.New()
	router.Use(utils.ContextLogger(logger), utils.LoggerMiddleware(logger), gin.Recovery())
	handlers.NewHandlerManager(sessionService, m, v, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Quality service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func newCampaignRepository(cfg *config.Config, logger utils.Logger) (repositories.CampaignRepository, error) {
	if cfg.CampaignSource == "xlsx" {
		logger.Info("Reading campaigns from workbooks", "dir", cfg.CampaignXLSXDir)
		return xlsx.NewCampaignXLSX(cfg.CampaignXLSXDir, cfg.DefaultMinimumSeconds), nil
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.IsProduction() {
		if err := postgres.AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	return postgres.NewCampaignPostgreSQL(db), nil
}
