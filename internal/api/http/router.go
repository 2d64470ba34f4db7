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
	Categories     *handlers.CategoriesHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	authenticated := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", authenticated, cfg.Auth.Me)

	tickets := api.Group("/tickets", authenticated)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/me", cfg.Tickets.ListOwnTickets)
	tickets.Get("/agent", auth.RequireStaff(), cfg.Tickets.ListAgentTickets)
	tickets.Get("/all", auth.RequireAdmin(), cfg.Tickets.ListAllTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id/status", auth.RequireStaff(), cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/vote", cfg.Tickets.Vote)

	categories := api.Group("/categories")
	categories.Get("/", cfg.Categories.List)
	categories.Get("/:id", cfg.Categories.Get)
	categories.Post("/", authenticated, auth.RequireAdmin(), cfg.Categories.Create)
	categories.Put("/:id", authenticated, auth.RequireAdmin(), cfg.Categories.Update)
	categories.Delete("/:id", authenticated, auth.RequireAdmin(), cfg.Categories.Delete)

	users := api.Group("/users", authenticated)
	users.Get("/", auth.RequireAdmin(), cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", auth.RequireAdmin(), cfg.Users.Delete)
}
