package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/kure-api/services"
	"github.com/meinhoongagan/kure-api/utils"
)

type AuthService interface {
	SendOTP(ctx context.Context, input services.SendOTPInput) (*services.SendOTPResult, error)
	VerifyOTP(ctx context.Context, input services.VerifyOTPInput) error
	RegisterUser(ctx context.Context, input services.RegisterUserInput) (*services.AuthResult, error)
	RegisterProvider(ctx context.Context, input services.RegisterProviderInput) (*services.AuthResult, error)
	UserLogin(ctx context.Context, input services.LoginInput) (*services.AuthResult, error)
	ProviderLogin(ctx context.Context, input services.LoginInput) (*services.AuthResult, error)
	ForgotPassword(ctx context.Context, input services.ForgotPasswordInput) (*services.SendOTPResult, error)
	ResetPassword(ctx context.Context, input services.ResetPasswordInput) error
}

type AuthController struct {
	auth AuthService
}

func NewAuthController(auth AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// SendOTP godoc
// @Summary Email a one-time code for registration
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.SendOTPInput true "Email"
// @Success 200 {object} utils.Response
// @Router /auth/send-otp [post]
func (h *AuthController) SendOTP(c *fiber.Ctx) error {
	var input services.SendOTPInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	result, err := h.auth.SendOTP(c.UserContext(), input)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "OTP sent successfully", otpData(result))
}

// VerifyOTP godoc
// @Summary Verify a registration code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.VerifyOTPInput true "Email and code"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /auth/verify-otp [post]
func (h *AuthController) VerifyOTP(c *fiber.Ctx) error {
	var input services.VerifyOTPInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := h.auth.VerifyOTP(c.UserContext(), input); err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "OTP verified successfully", nil)
}

// RegisterUser godoc
// @Summary Register a user account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RegisterUserInput true "Account"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /auth/register-user [post]
func (h *AuthController) RegisterUser(c *fiber.Ctx) error {
	var input services.RegisterUserInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	result, err := h.auth.RegisterUser(c.UserContext(), input)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusCreated, "User registered successfully", result)
}

// RegisterProvider godoc
// @Summary Register a provider account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RegisterProviderInput true "Provider profile"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /auth/register-provider [post]
func (h *AuthController) RegisterProvider(c *fiber.Ctx) error {
	var input services.RegisterProviderInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	result, err := h.auth.RegisterProvider(c.UserContext(), input)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusCreated, "Provider registered successfully", result)
}

// UserLogin godoc
// @Summary Log in as a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/user-login [post]
func (h *AuthController) UserLogin(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	result, err := h.auth.UserLogin(c.UserContext(), input)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Login successful", result)
}

// ProviderLogin godoc
// @Summary Log in as a provider
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/provider-login [post]
func (h *AuthController) ProviderLogin(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	result, err := h.auth.ProviderLogin(c.UserContext(), input)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Login successful", result)
}

// ForgotPassword godoc
// @Summary Email a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.ForgotPasswordInput true "Email"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /auth/forgot-password [post]
func (h *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var input services.ForgotPasswordInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	result, err := h.auth.ForgotPassword(c.UserContext(), input)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "OTP sent to your email", otpData(result))
}

// ResetPassword godoc
// @Summary Set a new password with a reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.ResetPasswordInput true "Email, code and new password"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /auth/reset-password [post]
func (h *AuthController) ResetPassword(c *fiber.Ctx) error {
	var input services.ResetPasswordInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), input); err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Password reset successfully", nil)
}

// otpData drops the data field unless the code is echoed back outside production.
func otpData(result *services.SendOTPResult) interface{} {
	if result == nil || result.OTP == "" {
		return nil
	}
	return result
}
