package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursemaker-go-api/internal/config"
	"github.com/noah-isme/coursemaker-go-api/internal/handler"
	"github.com/noah-isme/coursemaker-go-api/internal/middleware"
	"github.com/noah-isme/coursemaker-go-api/internal/observability"
	"github.com/noah-isme/coursemaker-go-api/internal/repository"
)

// Dependencies bundles everything the router mounts.
type Dependencies struct {
	Health        *handler.HealthHandler
	Submissions   *handler.SubmissionHandler
	Grading       *handler.GradingHandler
	Reviews       *handler.ReviewHandler
	Registration  *handler.RegistrationHandler
	AdminStudents *handler.AdminStudentHandler
	Notifications *handler.NotificationHandler
	Courses       *handler.CourseHandler
	Uploads       *handler.UploadHandler
	Teachers      repository.TeacherRepository
	Logger        zerolog.Logger
}

// Register mounts all routes. Public routes are rate limited per caller IP;
// teacher routes sit behind JWT auth plus the teacher registry guard.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	middleware.Register(app)

	app.Get("/health", deps.Health.Check)
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1")

	teacherOnly := []fiber.Handler{
		middleware.JWTProtected(cfg.JWTSecret),
		middleware.TeacherRequired(deps.Teachers, deps.Logger),
	}

	reports := api.Group("/reports")
	reports.Post("/",
		middleware.RateLimit("submit", 10, time.Minute),
		deps.Submissions.Submit,
	)
	reports.Get("/:id", append(teacherOnly, deps.Reviews.Get)...)
	reports.Post("/:id/grade", append(teacherOnly, deps.Grading.Grade)...)
	reports.Post("/:id/review", append(teacherOnly, deps.Reviews.Review)...)

	students := api.Group("/students")
	students.Post("/register",
		middleware.RateLimit("register", 5, time.Minute),
		deps.Registration.Register,
	)
	students.Get("/:id/access-key", append(teacherOnly, deps.AdminStudents.RevealAccessKey)...)
	students.Post("/:id/reset-email", append(teacherOnly, deps.AdminStudents.ResetEmail)...)

	courses := api.Group("/courses")
	courses.Post("/", append(teacherOnly, deps.Courses.Create)...)
	courses.Post("/:id/enrollments/:sid/status", append(teacherOnly, deps.AdminStudents.ToggleEnrollment)...)
	courses.Post("/:id/notifications", append(teacherOnly, deps.Notifications.Send)...)
	courses.Get("/:id/students/:sid/status", append(teacherOnly, deps.Notifications.Status)...)

	api.Post("/uploads",
		middleware.RateLimit("upload", 20, time.Minute),
		deps.Uploads.Upload,
	)
}
