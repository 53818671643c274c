package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sitepulse/sitepulse/internal/api/handlers"
	"github.com/sitepulse/sitepulse/internal/config"
	"github.com/sitepulse/sitepulse/internal/service/pagespeed"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, cfg *config.Config) {
	// Initialize the upstream client and service
	client := pagespeed.NewClient(cfg.PageSpeedURL, cfg.PageSpeedAPIKey,
		pagespeed.WithTimeout(cfg.UpstreamTimeout),
		pagespeed.WithRateLimit(cfg.UpstreamRateLimit),
	)
	analysisHandler := handlers.NewAnalysisHandler(pagespeed.NewService(client), cfg)

	// API group
	api := app.Group("/api")

	// Health check route
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Analysis routes
	api.Post("/analyze", analysisHandler.Analyze)
	api.Post("/compare", analysisHandler.Compare)
}
