package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-portal/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Directory *handlers.DirectoryHandler
	Tickets   *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/departments", cfg.Directory.ListDepartments)
	api.Get("/users", cfg.Directory.ListUsers)

	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets/:ticketId", cfg.Tickets.GetTicket)
	api.Patch("/tickets/:ticketId/status", cfg.Tickets.UpdateStatus)
	api.Get("/tickets/:ticketId/receipt", cfg.Tickets.Receipt)
}
