package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/meinhoongagan/kure-api/apperrors"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Send writes {success, message, data}. Success follows the status code.
func Send(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{
		Success: status < fiber.StatusBadRequest,
		Message: message,
		Data:    data,
	})
}

// SendKeyed writes the older envelope where payload keys sit next to
// success and message instead of under data.
func SendKeyed(c *fiber.Ctx, status int, message string, payload fiber.Map) error {
	body := fiber.Map{
		"success": status < fiber.StatusBadRequest,
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// StatusOf maps a handler error to the status code it will be answered with.
func StatusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperrors.HTTPStatus(err)
}

// ErrorHandler renders every returned error as {success:false, message}.
// Internal details only go to the log.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := StatusOf(err)

		message := apperrors.PublicMessage(err)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			message = fe.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err))
		}

		return c.Status(status).JSON(Response{Success: false, Message: message})
	}
}
