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

	"github.com/arkield/campus-api/internal/config"
	"github.com/arkield/campus-api/internal/database"
	"github.com/arkield/campus-api/internal/handler"
	"github.com/arkield/campus-api/internal/middleware"
	"github.com/arkield/campus-api/internal/repository"
	"github.com/arkield/campus-api/internal/router"
	"github.com/arkield/campus-api/internal/service"
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

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, overview caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, event publication disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	verifier := service.BcryptVerifier{}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	policy := service.NewPolicy(courseRepo, enrollmentRepo)
	activityService := service.NewActivityService(activityRepo, natsConn, cfg.EventSubjectBase, logger)

	authService := service.NewAuthService(userRepo, verifier, validate, activityService, cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := service.NewUserService(userRepo, policy, verifier, validate, activityService, logger)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, userRepo, policy, validate, activityService, logger)
	enrollmentService := service.NewEnrollmentService(db, policy, activityService, redisClient, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, enrollmentRepo, policy, validate, activityService, redisClient, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, courseRepo, gradeRepo, policy, validate, activityService, logger)
	gradingService := service.NewGradingService(db, policy, validate, activityService, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, courseRepo, enrollmentRepo, policy, validate, activityService, redisClient, logger)
	calendarService := service.NewCalendarService(calendarRepo, policy, validate, activityService, logger)
	messageService := service.NewMessageService(messageRepo, courseRepo, userRepo, policy, validate, activityService, logger)
	overviewService := service.NewOverviewService(assignmentRepo, announcementRepo, submissionRepo, gradeRepo, courseRepo, policy, redisClient, cfg.OverviewCacheTTL, logger)

	snapshotService, err := service.NewSnapshotService(db, policy, logger)
	if err != nil {
		log.Fatalf("failed to build snapshot service: %v", err)
	}

	if cfg.SeedOnStart {
		seeded, err := service.NewSeedService(db, verifier, logger).SeedIfEmpty(context.Background())
		if err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}
		if seeded {
			logger.Info().Msg("seeded empty database with baseline records")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		CourseHandler:       handler.NewCourseHandler(courseService, enrollmentService, announcementService, logger),
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService, submissionService, gradingService, logger),
		AnnouncementHandler: handler.NewAnnouncementHandler(announcementService, logger),
		CalendarHandler:     handler.NewCalendarHandler(calendarService, logger),
		MessageHandler:      handler.NewMessageHandler(messageService, logger),
		OverviewHandler:     handler.NewOverviewHandler(overviewService, logger),
		AdminHandler:        handler.NewAdminHandler(userService, activityService, snapshotService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
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
