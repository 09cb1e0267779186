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
	"github.com/mockmate/interview-service/internal/cache"
	"github.com/mockmate/interview-service/internal/clients"
	"github.com/mockmate/interview-service/internal/config"
	"github.com/mockmate/interview-service/internal/handlers"
	"github.com/mockmate/interview-service/internal/questionbank"
	"github.com/mockmate/interview-service/internal/repositories/postgres"
	"github.com/mockmate/interview-service/internal/services"
	"github.com/mockmate/interview-service/internal/utils"
	"github.com/mockmate/interview-service/pkg"
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
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.MigrateDatabase(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	var bank *questionbank.Bank
	if cfg.QuestionBankFile != "" {
		bank, err = questionbank.LoadFile(cfg.QuestionBankFile)
	} else {
		bank, err = questionbank.Load()
	}
	if err != nil {
		logger.Error("Failed to load question bank", "file", cfg.QuestionBankFile, "error", err)
		os.Exit(1)
	}

	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()

	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:             repo,
		Snapshots:        cache.NewSnapshotStore(redisClient, slogger),
		Cache:            cache.NewRedisCache(redisClient, slogger),
		Planner:          clients.NewPlannerClient(cfg.PlannerURL),
		Transcriber:      clients.NewTranscriberClient(cfg.TranscriberURL),
		Scorer:           clients.NewScorerClient(cfg.ScorerURL),
		ResumeParse:      clients.NewResumeParserClient(cfg.ResumeParserURL),
		Bank:             bank,
		Publisher:        publisher,
		Logger:           slogger,
		Validator:        validator,
		DefaultThinkTime: cfg.ThinkTimeSeconds,
	})

	handlers.InitAuth(cfg)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, validator, logger)
	handlerManager.SetupRoutes(router, handlers.AuthMiddleware(logger))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Interview service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
