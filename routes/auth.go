package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/kure-api/controllers"
)

// SetupAuthRoutes configures the public authentication routes
func SetupAuthRoutes(app *fiber.App, h *controllers.AuthController) {
	auth := app.Group("/auth")

	auth.Post("/send-otp", h.SendOTP)
	auth.Post("/verify-otp", h.VerifyOTP)
	auth.Post("/register-user", h.RegisterUser)
	auth.Post("/register-provider", h.RegisterProvider)
	auth.Post("/user-login", h.UserLogin)
	auth.Post("/provider-login", h.ProviderLogin)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)
}
