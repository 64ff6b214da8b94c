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
	"github.com/rs/zerolog"

	"github.com/edutrack/edutrack-api/internal/config"
	"github.com/edutrack/edutrack-api/internal/database"
	"github.com/edutrack/edutrack-api/internal/handler"
	"github.com/edutrack/edutrack-api/internal/middleware"
	"github.com/edutrack/edutrack-api/internal/models"
	"github.com/edutrack/edutrack-api/internal/repository"
	"github.com/edutrack/edutrack-api/internal/router"
	"github.com/edutrack/edutrack-api/internal/service"
	cloud "github.com/edutrack/edutrack-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.StudentProfile{},
		&models.TeacherProfile{},
		&models.ParentProfile{},
		&models.ParentChildRelation{},
		&models.Group{},
		&models.Task{},
		&models.Submission{},
		&models.Comment{},
		&models.Ranking{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	rankingRepo := repository.NewRankingRepository(db)
	parentRepo := repository.NewParentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	principals := service.NewPrincipalService(userRepo, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	rankingService := service.NewRankingService(rankingRepo, groupRepo, submissionRepo, taskRepo, redisClient, cfg.LeaderboardCacheTTL, logger)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, commentRepo, validate, uploader, logger)
	gradingService := service.NewGradingService(submissionRepo, validate, activityService, rankingService, logger)
	taskService := service.NewTaskService(taskRepo, groupRepo, submissionRepo, validate, logger)
	parentService := service.NewParentService(parentRepo, rankingRepo, logger)

	taskHandler := handler.NewTaskHandler(taskService, activityService, principals, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, gradingService, principals, logger)
	rankingHandler := handler.NewRankingHandler(rankingService, principals, logger)
	parentHandler := handler.NewParentHandler(parentService, principals, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TaskHandler:       taskHandler,
		SubmissionHandler: submissionHandler,
		RankingHandler:    rankingHandler,
		ParentHandler:     parentHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		SubmitLimiter:     middleware.RateLimit("submit-task", cfg.SubmitRateLimit, cfg.SubmitRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

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
