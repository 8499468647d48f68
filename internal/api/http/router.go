package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketbot/internal/api/http/handlers"
	"github.com/spec-kit/ticketbot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Records        *handlers.RecordsHandler
	NLP            *handlers.NLPHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(auth.RoleAdmin, auth.RoleViewer))
	protected.Get("/metrics", cfg.Metrics.Get)

	records := protected.Group("/records")
	records.Get("/tickets/:id", cfg.Records.GetTicket)
	records.Get("/servers/:id", cfg.Records.GetServer)
	records.Get("/servers/:id/tickets", cfg.Records.ListServerTickets)
	records.Get("/users/:id", cfg.Records.GetUser)

	probes := app.Group("/nlp", cfg.AuthMiddleware.Handle, auth.RequireRole(auth.RoleAdmin))
	probes.Get("/message", cfg.NLP.Message)
	probes.Get("/languages", cfg.NLP.Languages)
}
