package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arkield/campus-api/internal/config"
	"github.com/arkield/campus-api/internal/handler"
	"github.com/arkield/campus-api/internal/middleware"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	CourseHandler       *handler.CourseHandler
	AssignmentHandler   *handler.AssignmentHandler
	AnnouncementHandler *handler.AnnouncementHandler
	CalendarHandler     *handler.CalendarHandler
	MessageHandler      *handler.MessageHandler
	OverviewHandler     *handler.OverviewHandler
	AdminHandler        *handler.AdminHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 30, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.CourseHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CourseHandler.Register(courses)
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware)
		deps.AssignmentHandler.Register(assignments)

		submissions := api.Group("/submissions", jwtMiddleware)
		deps.AssignmentHandler.RegisterSubmissions(submissions)
	}

	if deps.AnnouncementHandler != nil {
		announcements := api.Group("/announcements", jwtMiddleware)
		deps.AnnouncementHandler.Register(announcements)
	}

	if deps.CalendarHandler != nil {
		calendar := api.Group("/calendar", jwtMiddleware)
		deps.CalendarHandler.Register(calendar)
	}

	if deps.MessageHandler != nil {
		threads := api.Group("/threads", jwtMiddleware)
		deps.MessageHandler.Register(threads)
	}

	if deps.OverviewHandler != nil {
		me := api.Group("/me", jwtMiddleware)
		deps.OverviewHandler.Register(me)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(string(models.RoleAdmin)))
		deps.AdminHandler.Register(admin)
	}
}
