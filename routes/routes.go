package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/meinhoongagan/kure-api/controllers"
	"github.com/meinhoongagan/kure-api/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	JWTSecret    string
	Parties      middleware.PartyLookup
	Auth         *controllers.AuthController
	Appointments *controllers.AppointmentController
	Providers    *controllers.ProviderController
	Services     *controllers.ServiceController
	Metrics      http.Handler
}

// Setup registers every route group on app.
func Setup(app *fiber.App, d Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Kure API is running")
	})
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics))
	}

	protected := middleware.Protected(d.JWTSecret)
	SetupAuthRoutes(app, d.Auth)
	SetupAppointmentRoutes(app, d.Appointments, protected, d.Parties)
	SetupProviderRoutes(app, d.Providers, protected)
	SetupServiceRoutes(app, d.Services, protected)
}
