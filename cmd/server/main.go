package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/SAP-F-2025/session-engine/internal/cache"
	"github.com/SAP-F-2025/session-engine/internal/config"
	"github.com/SAP-F-2025/session-engine/internal/handlers"
	"github.com/SAP-F-2025/session-engine/internal/repositories/postgres"
	"github.com/SAP-F-2025/session-engine/internal/services"
	"github.com/SAP-F-2025/session-engine/internal/timer"
	"github.com/SAP-F-2025/session-engine/internal/utils"
	"github.com/SAP-F-2025/session-engine/internal/validator"
	"github.com/SAP-F-2025/session-engine/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogLogger := logger.(*utils.SlogLogger).GetSlogLogger()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to Redis")
		os.Exit(1)
	}
	defer redisClient.Close()

	eventPublisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer eventPublisher.Close()

	repo := postgres.NewRepository(db)
	cacheService := cache.NewRedisCache(redisClient, slogLogger)
	cachedRepo := cache.WrapRepository(repo, cacheService,
		time.Duration(cfg.CacheTTLSeconds)*time.Second, slogLogger)

	v := validator.New()
	clock := timer.NewClock()

	assessmentService := services.NewAssessmentService(cachedRepo, slogLogger, v)
	sessionService := services.NewSessionService(cachedRepo, eventPublisher, slogLogger, v, clock)
	exportService := services.NewExportService(cachedRepo, slogLogger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		assessmentService,
		sessionService,
		exportService,
		cfg.Casdoor,
		logger,
	)
	handlerManager.SetupRoutes(router)

	logger.Info("Starting session engine",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"events_enabled", cfg.Events.Enabled)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.LogError(err, "Server exited")
		os.Exit(1)
	}
}
