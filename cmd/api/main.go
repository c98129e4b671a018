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

	"github.com/noah-isme/coursemaker-go-api/internal/config"
	"github.com/noah-isme/coursemaker-go-api/internal/database"
	"github.com/noah-isme/coursemaker-go-api/internal/handler"
	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/internal/queue"
	"github.com/noah-isme/coursemaker-go-api/internal/repository"
	"github.com/noah-isme/coursemaker-go-api/internal/router"
	"github.com/noah-isme/coursemaker-go-api/internal/service"
	"github.com/noah-isme/coursemaker-go-api/pkg/ai"
	"github.com/noah-isme/coursemaker-go-api/pkg/mailer"
	"github.com/noah-isme/coursemaker-go-api/pkg/secrets"
	"github.com/noah-isme/coursemaker-go-api/pkg/storage"
)

const gradingSubject = "grading.jobs"

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
		&models.Teacher{},
		&models.Student{},
		&models.Course{},
		&models.CourseTemplate{},
		&models.Session{},
		&models.Enrollment{},
		&models.Submission{},
	); err != nil {
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
		logger.Warn().Msg("redis not configured, grading runs without cross-process locking")
	}

	vault, err := secrets.NewVault(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("failed to initialize access key vault: %v", err)
	}

	store, err := storage.New(storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
	}, logger)
	if err != nil {
		log.Fatalf("failed to initialize object store: %v", err)
	}

	mail, err := mailer.New(mailer.Config{
		APIKey:    cfg.SendGridAPIKey,
		FromName:  cfg.MailFromName,
		FromEmail: cfg.MailFromEmail,
	}, logger)
	if err != nil {
		log.Fatalf("failed to initialize mailer: %v", err)
	}

	grader, err := ai.NewOpenAIGrader(ai.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.AIModel,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to initialize report grader: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	templateRepo := repository.NewCourseTemplateRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	resolver := service.NewContentResolver(store, logger)
	gradingService := service.NewGradingService(submissionRepo, resolver, grader, redisClient, cfg.GradingTimeout, logger)

	dispatcher, cleanup, err := buildDispatcher(cfg, gradingService, logger)
	if err != nil {
		log.Fatalf("failed to initialize grading dispatcher: %v", err)
	}
	defer cleanup()

	submissionService := service.NewSubmissionService(
		studentRepo, enrollmentRepo, sessionRepo, submissionRepo,
		vault, dispatcher, validate, logger,
	)
	reviewService := service.NewReviewService(submissionRepo, validate, logger)
	notificationService := service.NewNotificationService(
		courseRepo, sessionRepo, enrollmentRepo, submissionRepo,
		mail, cfg.EmailTimeout, logger,
	)
	registrationService := service.NewRegistrationService(
		studentRepo, enrollmentRepo, vault, mail,
		cfg.EmailTimeout, validate, logger,
	)
	adminService := service.NewAdminStudentService(
		studentRepo, courseRepo, enrollmentRepo, vault, mail,
		cfg.EmailTimeout, validate, logger,
	)
	courseService := service.NewCourseService(courseRepo, templateRepo, validate, logger)
	uploadService := service.NewUploadService(studentRepo, vault, store, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    12 << 20,
	})

	router.Register(app, cfg, router.Dependencies{
		Health:        handler.NewHealthHandler(cfg.AppName),
		Submissions:   handler.NewSubmissionHandler(submissionService, logger),
		Grading:       handler.NewGradingHandler(gradingService, logger),
		Reviews:       handler.NewReviewHandler(reviewService, logger),
		Registration:  handler.NewRegistrationHandler(registrationService, logger),
		AdminStudents: handler.NewAdminStudentHandler(adminService, logger),
		Notifications: handler.NewNotificationHandler(notificationService, logger),
		Courses:       handler.NewCourseHandler(courseService, logger),
		Uploads:       handler.NewUploadHandler(uploadService, logger),
		Teachers:      teacherRepo,
		Logger:        logger,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildDispatcher wires the NATS queue when a broker is configured, with an
// in-process worker as the fallback for single-node deployments.
func buildDispatcher(cfg config.Config, grading service.GradingService, logger zerolog.Logger) (queue.GradingDispatcher, func(), error) {
	if cfg.NATSURL == "" {
		logger.Info().Msg("nats not configured, grading runs in-process")
		return queue.NewInProcessDispatcher(grading.Grade, cfg.GradingTimeout, logger), func() {}, nil
	}

	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, nil, err
	}

	sub, err := queue.StartConsumer(conn, gradingSubject, cfg.GradingTimeout, grading.Grade, logger)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = sub.Drain()
		conn.Close()
	}

	return queue.NewNATSDispatcher(conn, gradingSubject, logger), cleanup, nil
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
