package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/staffkit/staff-admin/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Areas     *handlers.AreasHandler
	Roles     *handlers.RolesHandler
	Employees *handlers.EmployeesHandler
	Metrics   nethttp.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	api := app.Group("/api")
	api.Get("/areas", cfg.Areas.List)
	api.Post("/areas", cfg.Areas.Mutate)

	api.Get("/roles", cfg.Roles.List)
	api.Post("/roles", cfg.Roles.Mutate)

	api.Get("/empleados/export", cfg.Employees.Export)
	api.Get("/empleados", cfg.Employees.Read)
	api.Post("/empleados", cfg.Employees.Mutate)
}
