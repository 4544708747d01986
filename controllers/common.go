package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/middleware"
	"github.com/meinhoongagan/kure-api/models"
)

func principal(c *fiber.Ctx) (models.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return models.Principal{}, apperrors.Unauthorized("User ID not found in context")
	}
	return p, nil
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("Invalid id")
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	return nil
}
