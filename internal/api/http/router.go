package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Employees *handlers.EmployeesHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	employees := app.Group("/employees")
	employees.Post("", cfg.Employees.Create)
	employees.Get("", cfg.Employees.List)
	// Registered before /:id so "search" is never read as an id.
	employees.Get("/search/:name", cfg.Employees.Search)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Put("/:id", cfg.Employees.Update)
	employees.Delete("/:id", cfg.Employees.Delete)
}
