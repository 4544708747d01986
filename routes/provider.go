package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/kure-api/controllers"
	"github.com/meinhoongagan/kure-api/middleware"
	"github.com/meinhoongagan/kure-api/models"
)

// SetupProviderRoutes configures the provider dashboard routes
func SetupProviderRoutes(app *fiber.App, h *controllers.ProviderController, protected fiber.Handler) {
	provider := app.Group("/providers", protected, middleware.Guard(middleware.Policy{
		Roles: []models.Role{models.RoleProvider},
	}))

	provider.Get("/stats", h.Stats)
	provider.Get("/today-appointments", h.Today)
	provider.Get("/weekly-appointments", h.Weekly)
	provider.Get("/monthly-appointments", h.Monthly)
	provider.Get("/all-appointments", h.AllAppointments)
	provider.Get("/get-all-appointments", h.GetAllAppointments)
}
