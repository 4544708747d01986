package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/kure-api/services"
	"github.com/meinhoongagan/kure-api/utils"
)

type ReportingService interface {
	ProviderListing
	ProviderStats(ctx context.Context, providerID uint) (*services.ProviderStats, error)
	Today(ctx context.Context, providerID uint) (*services.TodayReport, error)
	Weekly(ctx context.Context, providerID uint) (*services.WeeklyReport, error)
	Monthly(ctx context.Context, providerID uint) (*services.MonthlyReport, error)
	AllByProvider(ctx context.Context, providerID uint) (*services.ProviderAppointments, error)
}

// ProviderController serves the provider dashboard.
type ProviderController struct {
	reports ReportingService
	list    *AppointmentController
}

func NewProviderController(reports ReportingService) *ProviderController {
	return &ProviderController{
		reports: reports,
		list:    &AppointmentController{listing: reports},
	}
}

// Stats godoc
// @Summary Provider dashboard counters
// @Tags providers
// @Produce json
// @Success 200 {object} utils.Response
// @Router /providers/stats [get]
func (h *ProviderController) Stats(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	stats, err := h.reports.ProviderStats(c.UserContext(), p.ID)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Provider statistics fetched successfully", fiber.Map{
		"stats": stats,
	})
}

// Today godoc
// @Summary Today's appointments and counters
// @Tags providers
// @Produce json
// @Success 200 {object} utils.Response
// @Router /providers/today-appointments [get]
func (h *ProviderController) Today(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	report, err := h.reports.Today(c.UserContext(), p.ID)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Today's appointments fetched successfully", report)
}

// Weekly godoc
// @Summary Appointments created in the last seven days
// @Tags providers
// @Produce json
// @Success 200 {object} utils.Response
// @Router /providers/weekly-appointments [get]
func (h *ProviderController) Weekly(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	report, err := h.reports.Weekly(c.UserContext(), p.ID)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Weekly appointments fetched successfully", report)
}

// Monthly godoc
// @Summary Month-to-date appointments grouped by week
// @Tags providers
// @Produce json
// @Success 200 {object} utils.Response
// @Router /providers/monthly-appointments [get]
func (h *ProviderController) Monthly(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	report, err := h.reports.Monthly(c.UserContext(), p.ID)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Monthly appointments fetched successfully", report)
}

// AllAppointments godoc
// @Summary Filterable, paginated list of the provider's appointments (newest first)
// @Tags providers
// @Produce json
// @Success 200 {object} utils.Response
// @Router /providers/all-appointments [get]
func (h *ProviderController) AllAppointments(c *fiber.Ctx) error {
	return h.list.list(c, true, "All provider appointments fetched successfully")
}

// GetAllAppointments godoc
// @Summary Every appointment of the provider, in the keyed envelope
// @Tags providers
// @Produce json
// @Router /providers/get-all-appointments [get]
func (h *ProviderController) GetAllAppointments(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	all, err := h.reports.AllByProvider(c.UserContext(), p.ID)
	if err != nil {
		return err
	}
	return utils.SendKeyed(c, fiber.StatusOK, "All appointments fetched successfully", fiber.Map{
		"appointments": all.Appointments,
		"statistics":   all.Statistics,
		"providerId":   p.ID,
	})
}
