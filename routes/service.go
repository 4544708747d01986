package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/kure-api/controllers"
	"github.com/meinhoongagan/kure-api/middleware"
	"github.com/meinhoongagan/kure-api/models"
)

func SetupServiceRoutes(app *fiber.App, h *controllers.ServiceController, protected fiber.Handler) {
	service := app.Group("/services")

	providerOnly := middleware.Guard(middleware.Policy{Roles: []models.Role{models.RoleProvider}})

	service.Get("/", h.ListActive)
	service.Get("/categories", h.Categories)
	service.Get("/provider", protected, providerOnly, h.ListMine)
	service.Get("/:id", h.Get)

	service.Post("/", protected, providerOnly, h.Create)
	service.Post("/upload", protected, providerOnly, h.Upload)
	service.Put("/:id", protected, providerOnly, h.Update)
	service.Patch("/:id/status", protected, providerOnly, h.SetStatus)
	service.Delete("/:id", protected, middleware.Guard(middleware.Policy{
		Roles: []models.Role{models.RoleProvider, models.RoleAdmin},
	}), h.Delete)
}
