package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hire-go-api/internal/config"
	"github.com/noah-isme/hire-go-api/internal/database"
	"github.com/noah-isme/hire-go-api/internal/handler"
	"github.com/noah-isme/hire-go-api/internal/middleware"
	"github.com/noah-isme/hire-go-api/internal/repository"
	"github.com/noah-isme/hire-go-api/internal/router"
	"github.com/noah-isme/hire-go-api/internal/scoring"
	"github.com/noah-isme/hire-go-api/internal/service"
	"github.com/noah-isme/hire-go-api/pkg/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := database.Connect(cfg.DatabaseURL, cfg.DatabaseFallback, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, final results cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, domain events disabled")
			natsConn = nil
		} else {
			defer natsConn.Drain()
		}
	}
	publisher := events.NewPublisher(natsConn, cfg.NATSSubject, cfg.AppName, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())
	engine := scoring.NewEngine()
	weights := service.ScoreWeights{Auto: cfg.AutoScoreWeight, Manual: cfg.ManualScoreWeight}

	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	finalResultsService := service.NewFinalResultsService(applicationRepo, engine, weights, cfg.FinalResultsLimit, redisClient, cfg.RankingCacheTTL, logger)
	rankingService := service.NewRankingService(applicationRepo, engine, weights, cfg.RankingLimit, finalResultsService, logger)
	assignmentService := service.NewCandidateAssignmentService(applicationRepo, userRepo, validate, activityService, publisher, finalResultsService, logger)
	manualScoringService := service.NewManualScoringService(applicationRepo, validate, activityService, publisher, finalResultsService, logger)
	jobService := service.NewJobService(jobRepo, validate, activityService, finalResultsService, logger)
	applicationService := service.NewApplicationService(applicationRepo, jobRepo, userRepo, engine, validate, activityService, finalResultsService, logger)
	userService := service.NewUserService(userRepo, applicationRepo, validate, finalResultsService, logger)
	seedService := service.NewSeedService(userRepo, jobRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		DB:                     db,
		AdminRankingHandler:    handler.NewAdminRankingHandler(rankingService, finalResultsService, logger),
		AdminAssignmentHandler: handler.NewAdminAssignmentHandler(assignmentService, logger),
		AdminActivityHandler:   handler.NewAdminActivityHandler(activityService, logger),
		RecruiterHandler:       handler.NewRecruiterHandler(manualScoringService, assignmentService, logger),
		JobHandler:             handler.NewJobHandler(jobService, logger),
		ApplicationHandler:     handler.NewApplicationHandler(applicationService, logger),
		UserHandler:            handler.NewUserHandler(userService, logger),
		SeedHandler:            handler.NewSeedHandler(seedService, logger),
		JWTMiddleware:          middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Msg("server started")
	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
