package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edutrack/edutrack-api/internal/config"
	"github.com/edutrack/edutrack-api/internal/handler"
	"github.com/edutrack/edutrack-api/internal/middleware"
	"github.com/edutrack/edutrack-api/internal/models"
	"github.com/edutrack/edutrack-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TaskHandler       *handler.TaskHandler
	SubmissionHandler *handler.SubmissionHandler
	RankingHandler    *handler.RankingHandler
	ParentHandler     *handler.ParentHandler
	JWTMiddleware     fiber.Handler
	SubmitLimiter     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	protected := api.Group("", jwtMiddleware)

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(protected, deps.SubmitLimiter)
	}

	if deps.TaskHandler != nil {
		deps.TaskHandler.Register(protected, middleware.RequireRole(models.RoleTeacher))
	}

	if deps.RankingHandler != nil {
		deps.RankingHandler.Register(protected)
	}

	if deps.ParentHandler != nil {
		deps.ParentHandler.Register(protected)
	}
}
