package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookadzone/launch-api/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Signups   *handlers.SignupHandler
	Subscribe *handlers.SubscribeHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/signup", cfg.Signups.Submit)
	app.Get("/signup/counts", cfg.Signups.Counts)
	app.Post("/validate", cfg.Signups.Validate)

	app.Post("/subscribe", cfg.Subscribe.Subscribe)
}
