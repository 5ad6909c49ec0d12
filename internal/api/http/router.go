package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AdminTickets   *handlers.AdminTicketsHandler
	Catalog        *handlers.CatalogHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.RegisterCompany)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.ChangePassword)

	api := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/rating", auth.RequireCustomer(), cfg.Tickets.RateTicket)

	api.Get("/ticket-types", cfg.Catalog.ListTicketTypes)
	api.Get("/categories", cfg.Catalog.ListCategories)
	api.Get("/categories/:id/modules", cfg.Catalog.ListCategoryModules)

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Get("/tickets", cfg.Tickets.ListTickets)
	admin.Get("/tickets/:id", cfg.Tickets.GetTicket)
	admin.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	admin.Post("/tickets/:id/approve", cfg.AdminTickets.Approve)
	admin.Post("/tickets/:id/reject", cfg.AdminTickets.Reject)
	admin.Post("/tickets/:id/resolve", cfg.AdminTickets.Resolve)
	admin.Post("/tickets/:id/close", cfg.AdminTickets.Close)

	catalog := admin.Group("/catalog")
	catalog.Post("/ticket-types", cfg.Catalog.CreateTicketType)
	catalog.Put("/ticket-types/:id", cfg.Catalog.UpdateTicketType)
	catalog.Post("/categories", cfg.Catalog.CreateCategory)
	catalog.Put("/categories/:id", cfg.Catalog.UpdateCategory)
	catalog.Post("/categories/:id/modules", cfg.Catalog.CreateCategoryModule)
	catalog.Post("/customers", cfg.Catalog.CreateCustomer)
	catalog.Put("/customers/:id", cfg.Catalog.UpdateCustomer)
	catalog.Get("/customers", cfg.Catalog.ListCustomers)
	catalog.Post("/customer-users", cfg.Catalog.CreateCustomerUser)
	catalog.Put("/pmo-settings", cfg.Catalog.UpdatePMOSettings)

	admin.Get("/dashboard", cfg.Dashboard.Stats)
}
