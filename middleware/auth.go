package middleware

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/models"
)

const principalKey = "principal"

// Protected verifies the bearer token and stores the caller's Principal in
// the request locals.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ErrorHandler:  jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return apperrors.Unauthorized("Invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return apperrors.Unauthorized("Invalid token claims")
			}

			userID, err := extractUserID(claims)
			if err != nil {
				return apperrors.Unauthorized("Invalid user ID in token")
			}
			role, err := extractRole(claims)
			if err != nil {
				return apperrors.Unauthorized("Invalid role in token")
			}
			email, _ := claims["email"].(string)

			c.Locals(principalKey, models.Principal{ID: userID, Role: role, Email: email})
			c.Locals("userID", userID)
			c.Locals("role", string(role))
			return c.Next()
		},
	})
}

// PrincipalFrom returns the caller resolved by Protected.
func PrincipalFrom(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals(principalKey).(models.Principal)
	return p, ok
}

// extractUserID handles multiple potential formats of user ID in token
func extractUserID(claims jwt.MapClaims) (uint, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	switch v := idVal.(type) {
	case float64:
		if v <= 0 || v != math.Trunc(v) {
			return 0, fmt.Errorf("invalid ID: %v", v)
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil || parsed == 0 {
			return 0, fmt.Errorf("could not parse ID string: %q", v)
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

// extractRole accepts a plain role string or a {"name": ...} object.
func extractRole(claims jwt.MapClaims) (models.Role, error) {
	var name string
	switch v := claims["role"].(type) {
	case string:
		name = v
	case map[string]interface{}:
		name, _ = v["name"].(string)
	default:
		return "", fmt.Errorf("unsupported role type: %T", v)
	}

	role := models.Role(name)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", name)
	}
	return role, nil
}

func jwtError(c *fiber.Ctx, err error) error {
	return apperrors.Unauthorized("Invalid or expired token")
}
