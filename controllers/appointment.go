package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/services"
	"github.com/meinhoongagan/kure-api/utils"
)

type AppointmentService interface {
	Create(ctx context.Context, p models.Principal, input services.CreateAppointmentInput) (*models.AppointmentView, error)
	GetByID(ctx context.Context, p models.Principal, id uint) (*models.AppointmentView, error)
	ListForUser(ctx context.Context, p models.Principal) ([]models.AppointmentView, error)
	UpdateStatus(ctx context.Context, p models.Principal, id uint, status models.AppointmentStatus) (*models.AppointmentView, error)
	Cancel(ctx context.Context, p models.Principal, id uint) (*models.AppointmentView, error)
}

type ProviderListing interface {
	ListProviderAppointments(ctx context.Context, providerID uint, q services.ListQuery, defaultDesc bool) (*services.AppointmentPage, error)
}

type AppointmentController struct {
	appointments AppointmentService
	listing      ProviderListing
}

func NewAppointmentController(appointments AppointmentService, listing ProviderListing) *AppointmentController {
	return &AppointmentController{appointments: appointments, listing: listing}
}

// Create godoc
// @Summary Book an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointment body services.CreateAppointmentInput true "Appointment"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /appointments [post]
func (h *AppointmentController) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var input services.CreateAppointmentInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	appointment, err := h.appointments.Create(c.UserContext(), p, input)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusCreated, "Appointment created successfully", fiber.Map{
		"appointment": appointment,
	})
}

// ListMine godoc
// @Summary List the caller's appointments
// @Tags appointments
// @Produce json
// @Success 200 {object} utils.Response
// @Router /appointments/user [get]
func (h *AppointmentController) ListMine(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	appointments, err := h.appointments.ListForUser(c.UserContext(), p)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Appointments fetched successfully", fiber.Map{
		"appointments": appointments,
	})
}

// ListForProvider godoc
// @Summary List the provider's appointments with filters and pagination
// @Tags appointments
// @Produce json
// @Param status query string false "All, Current, pending, confirmed, completed or cancelled"
// @Param fromDate query string false "YYYY-MM-DD"
// @Param toDate query string false "YYYY-MM-DD"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Param sortBy query string false "Sort field" default(appointmentDate)
// @Param sortOrder query string false "asc or desc" default(asc)
// @Success 200 {object} utils.Response
// @Router /appointments/provider [get]
func (h *AppointmentController) ListForProvider(c *fiber.Ctx) error {
	return h.list(c, false, "Provider appointments fetched successfully")
}

func (h *AppointmentController) list(c *fiber.Ctx, defaultDesc bool, message string) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var q services.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.Validation("Invalid query parameters")
	}

	page, err := h.listing.ListProviderAppointments(c.UserContext(), p.ID, q, defaultDesc)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, message, page)
}

// Get godoc
// @Summary Get an appointment by ID
// @Tags appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /appointments/{id} [get]
func (h *AppointmentController) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	appointment, err := h.appointments.GetByID(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Appointment fetched successfully", fiber.Map{
		"appointment": appointment,
	})
}

// UpdateStatus godoc
// @Summary Set an appointment's status
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param body body object true "{\"status\": \"confirmed\"}"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /appointments/{id}/status [patch]
func (h *AppointmentController) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var body struct {
		Status models.AppointmentStatus `json:"status"`
	}
	if err := parseBody(c, &body); err != nil {
		return err
	}

	appointment, err := h.appointments.UpdateStatus(c.UserContext(), p, id, body.Status)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Appointment status updated successfully", fiber.Map{
		"appointment": appointment,
	})
}

// Cancel godoc
// @Summary Cancel a pending or confirmed appointment
// @Tags appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /appointments/{id}/cancel [patch]
func (h *AppointmentController) Cancel(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	appointment, err := h.appointments.Cancel(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Appointment cancelled successfully", fiber.Map{
		"appointment": appointment,
	})
}
