package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/repository"
)

// Ownership decides whether the principal may act on the resource named by
// the request. An error aborts the request with its own status.
type Ownership func(c *fiber.Ctx, p models.Principal) (bool, error)

// Policy declares who may call a route: one of Roles, and, when Owner is
// set, only for resources the principal owns.
type Policy struct {
	Roles []models.Role
	Owner Ownership
}

// Guard enforces a Policy. It must run after Protected. Role mismatches are
// rejected before any storage access.
func Guard(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return apperrors.Unauthorized("No authentication token")
		}

		if len(policy.Roles) > 0 && !hasRole(p.Role, policy.Roles) {
			return apperrors.Forbidden("Access denied for role " + string(p.Role))
		}

		if policy.Owner != nil {
			owns, err := policy.Owner(c, p)
			if err != nil {
				return err
			}
			if !owns {
				return apperrors.Forbidden("Not authorized to access this resource")
			}
		}
		return c.Next()
	}
}

func hasRole(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// PartyLookup resolves the user and provider of an appointment.
type PartyLookup interface {
	Parties(ctx context.Context, id uint) (repository.Parties, error)
}

// AppointmentParticipant admits the appointment's user or provider.
func AppointmentParticipant(lookup PartyLookup) Ownership {
	return appointmentOwnership(lookup, func(p models.Principal, parties repository.Parties) bool {
		return p.IsUser(parties.UserID) || p.IsProvider(parties.ProviderID)
	})
}

// AppointmentUser admits only the user who booked the appointment.
func AppointmentUser(lookup PartyLookup) Ownership {
	return appointmentOwnership(lookup, func(p models.Principal, parties repository.Parties) bool {
		return p.IsUser(parties.UserID)
	})
}

// AppointmentProvider admits only the provider the appointment is with.
func AppointmentProvider(lookup PartyLookup) Ownership {
	return appointmentOwnership(lookup, func(p models.Principal, parties repository.Parties) bool {
		return p.IsProvider(parties.ProviderID)
	})
}

func appointmentOwnership(lookup PartyLookup, owns func(models.Principal, repository.Parties) bool) Ownership {
	return func(c *fiber.Ctx, p models.Principal) (bool, error) {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return false, apperrors.Validation("Invalid appointment id")
		}

		parties, err := lookup.Parties(c.UserContext(), uint(id))
		if err != nil {
			if errors.Is(err, repository.ErrAppointmentNotFound) {
				return false, apperrors.NotFound("Appointment not found")
			}
			return false, apperrors.Internal("Failed to fetch appointment", err)
		}
		return owns(p, parties), nil
	}
}
