package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/internbooth/placement-api/internal/config"
	"github.com/internbooth/placement-api/internal/handler"
	"github.com/internbooth/placement-api/internal/middleware"
	"github.com/internbooth/placement-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	WorkflowHandler    *handler.WorkflowHandler
	SubmissionHandler  *handler.SubmissionHandler
	ApplicationHandler *handler.ApplicationHandler
	TestHandler        *handler.TestHandler
	StudentHandler     *handler.StudentHandler
	FacultyHandler     *handler.FacultyHandler
	InternshipHandler  *handler.InternshipHandler
	DashboardHandler   *handler.DashboardHandler
	ActivityHandler    *handler.ActivityHandler
	FeedHandler        *handler.FeedHandler
	UploadHandler      *handler.UploadHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Admin console: workflow actions, catalog management, dashboard, audit trail.
	admin := app.Group("/api/v1/admin", jwtMiddleware, middleware.RequireRole(middleware.AuthRoleAdmin, middleware.AuthRoleFaculty))

	if deps.WorkflowHandler != nil {
		deps.WorkflowHandler.Register(admin)
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.RegisterAdmin(admin)
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterAdmin(admin)
	}
	if deps.TestHandler != nil {
		deps.TestHandler.Register(admin)
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(admin)
	}
	if deps.FacultyHandler != nil {
		deps.FacultyHandler.Register(admin)
	}
	if deps.InternshipHandler != nil {
		deps.InternshipHandler.Register(admin)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(admin.Group("/dashboard"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin.Group("/activity"))
	}
	if deps.FeedHandler != nil {
		deps.FeedHandler.Register(admin.Group("/feeds"))
	}

	// Student surface: apply, upload a resume, submit quizzes. Quiz and
	// upload traffic is rate limited per user.
	student := app.Group("/api/v1/student", jwtMiddleware, middleware.RequireRole(middleware.AuthRoleStudent, middleware.AuthRoleAdmin), middleware.RateLimit("student", 30, time.Minute))

	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterStudent(student)
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.RegisterStudent(student)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(student.Group("/uploads"))
	}
}
