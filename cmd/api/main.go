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
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/config"
	"github.com/internbooth/placement-api/internal/database"
	"github.com/internbooth/placement-api/internal/handler"
	"github.com/internbooth/placement-api/internal/middleware"
	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/repository"
	"github.com/internbooth/placement-api/internal/router"
	"github.com/internbooth/placement-api/internal/service"
	cloud "github.com/internbooth/placement-api/pkg/cloudinary"
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
		&models.Student{},
		&models.Faculty{},
		&models.Internship{},
		&models.Test{},
		&models.Application{},
		&models.TestAssignment{},
		&models.QuizSubmission{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, feed fan-out limited to redis")
	}

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

	stores := repository.Stores{
		Applications: repository.NewApplicationRepository(db),
		Assignments:  repository.NewAssignmentRepository(db),
		Submissions:  repository.NewQuizSubmissionRepository(db),
		Tests:        repository.NewTestRepository(db),
		Students:     repository.NewStudentRepository(db),
		Internships:  repository.NewInternshipRepository(db),
	}
	facultyRepo := repository.NewFacultyRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	uow := repository.NewUnitOfWork(db)

	appCtx, stopServices := context.WithCancel(context.Background())
	defer stopServices()

	feedService := service.NewFeedService(redisClient, "placement", natsConn, logger)
	feedService.Start(appCtx)

	activityService := service.NewActivityService(activityRepo, logger)
	workflowService := service.NewWorkflowService(uow, stores, validate, activityService, feedService, logger)
	submissionService := service.NewSubmissionService(uow, stores, validate, feedService, logger)
	applicationService := service.NewApplicationService(stores.Applications, stores.Students, stores.Internships, validate, feedService, logger)
	testService := service.NewTestService(stores.Tests, validate, activityService, feedService, logger)
	studentService := service.NewStudentService(stores.Students, validate, activityService, feedService, logger)
	facultyService := service.NewFacultyService(facultyRepo, stores.Internships, validate, activityService, feedService, logger)
	internshipService := service.NewInternshipService(stores.Internships, facultyRepo, validate, activityService, feedService, logger)
	dashboardService := service.NewDashboardService(stores, facultyRepo, redisClient, cfg.DashboardCacheTTL, logger)
	uploadService := service.NewUploadService(uploader, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		WorkflowHandler:    handler.NewWorkflowHandler(workflowService, logger),
		SubmissionHandler:  handler.NewSubmissionHandler(submissionService, logger),
		ApplicationHandler: handler.NewApplicationHandler(applicationService, logger),
		TestHandler:        handler.NewTestHandler(testService, logger),
		StudentHandler:     handler.NewStudentHandler(studentService, logger),
		FacultyHandler:     handler.NewFacultyHandler(facultyService, logger),
		InternshipHandler:  handler.NewInternshipHandler(internshipService, logger),
		DashboardHandler:   handler.NewDashboardHandler(dashboardService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, logger),
		FeedHandler:        handler.NewFeedHandler(feedService, logger, cfg.FeedKeepAlive),
		UploadHandler:      handler.NewUploadHandler(uploadService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopServices)
}

func waitForShutdown(app *fiber.App, stopServices context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	stopServices()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
