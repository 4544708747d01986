package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/kure-api/controllers"
	"github.com/meinhoongagan/kure-api/middleware"
	"github.com/meinhoongagan/kure-api/models"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App, h *controllers.AppointmentController, protected fiber.Handler, parties middleware.PartyLookup) {
	appointment := app.Group("/appointments", protected)

	userOnly := middleware.Guard(middleware.Policy{Roles: []models.Role{models.RoleUser}})
	providerOnly := middleware.Guard(middleware.Policy{Roles: []models.Role{models.RoleProvider}})

	appointment.Post("/", userOnly, h.Create)
	appointment.Get("/user", userOnly, h.ListMine)
	appointment.Get("/provider", providerOnly, h.ListForProvider)

	appointment.Get("/:id", middleware.Guard(middleware.Policy{
		Roles: []models.Role{models.RoleUser, models.RoleProvider},
		Owner: middleware.AppointmentParticipant(parties),
	}), h.Get)
	appointment.Patch("/:id/status", middleware.Guard(middleware.Policy{
		Roles: []models.Role{models.RoleProvider},
		Owner: middleware.AppointmentProvider(parties),
	}), h.UpdateStatus)
	appointment.Patch("/:id/cancel", middleware.Guard(middleware.Policy{
		Roles: []models.Role{models.RoleUser},
		Owner: middleware.AppointmentUser(parties),
	}), h.Cancel)
}
