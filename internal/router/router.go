package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CE2L/ICT-Project1-KOR/internal/config"
	"github.com/CE2L/ICT-Project1-KOR/internal/handler"
	"github.com/CE2L/ICT-Project1-KOR/internal/observability"
)

// Dependencies carries the wired handlers the router mounts.
type Dependencies struct {
	InterviewHandler *handler.InterviewHandler
	AnalysisLimiter  fiber.Handler
	ProviderNames    []string
}

// Register mounts all HTTP routes on the application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	api.Get("/health", handler.HealthCheck(cfg, deps.ProviderNames))

	if deps.InterviewHandler != nil {
		deps.InterviewHandler.Register(api.Group("/interviews"), deps.AnalysisLimiter)
	}
}
