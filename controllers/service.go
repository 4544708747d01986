package controllers

import (
	"context"
	"path"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/services"
	"github.com/meinhoongagan/kure-api/utils"
)

type CatalogService interface {
	Create(ctx context.Context, p models.Principal, input services.ServiceInput) (*models.Service, error)
	Update(ctx context.Context, p models.Principal, id uint, input services.ServiceUpdate) (*models.Service, error)
	SetStatus(ctx context.Context, p models.Principal, id uint, status models.ServiceStatus) (*models.Service, error)
	Delete(ctx context.Context, p models.Principal, id uint) error
	Get(ctx context.Context, id uint) (*models.Service, error)
	ListMine(ctx context.Context, p models.Principal) ([]models.Service, error)
	ListActive(ctx context.Context) ([]models.Service, error)
	Categories() []models.ServiceCategory
	UploadImage(ctx context.Context, file interface{}, folder string) (utils.UploadResult, error)
}

type ServiceController struct {
	catalog CatalogService
}

func NewServiceController(catalog CatalogService) *ServiceController {
	return &ServiceController{catalog: catalog}
}

// ListActive godoc
// @Summary List active services
// @Tags services
// @Produce json
// @Success 200 {object} utils.Response
// @Router /services [get]
func (h *ServiceController) ListActive(c *fiber.Ctx) error {
	list, err := h.catalog.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Services fetched successfully", fiber.Map{
		"services": list,
	})
}

// Categories godoc
// @Summary List service categories
// @Tags services
// @Produce json
// @Success 200 {object} utils.Response
// @Router /services/categories [get]
func (h *ServiceController) Categories(c *fiber.Ctx) error {
	return utils.Send(c, fiber.StatusOK, "Categories fetched successfully", fiber.Map{
		"categories": h.catalog.Categories(),
	})
}

// ListMine godoc
// @Summary List the calling provider's services
// @Tags services
// @Produce json
// @Success 200 {object} utils.Response
// @Router /services/provider [get]
func (h *ServiceController) ListMine(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	list, err := h.catalog.ListMine(c.UserContext(), p)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Services fetched successfully", fiber.Map{
		"services": list,
	})
}

// Get godoc
// @Summary Get a service by ID
// @Tags services
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /services/{id} [get]
func (h *ServiceController) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	service, err := h.catalog.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Service fetched successfully", fiber.Map{
		"service": service,
	})
}

// Create godoc
// @Summary Create a service
// @Tags services
// @Accept json
// @Produce json
// @Param service body services.ServiceInput true "Service"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /services [post]
func (h *ServiceController) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input services.ServiceInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	service, err := h.catalog.Create(c.UserContext(), p, input)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusCreated, "Service created successfully", fiber.Map{
		"service": service,
	})
}

// Update godoc
// @Summary Update one of the provider's services
// @Tags services
// @Accept json
// @Produce json
// @Param id path int true "Service ID"
// @Param service body services.ServiceUpdate true "Changed fields"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /services/{id} [put]
func (h *ServiceController) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var input services.ServiceUpdate
	if err := parseBody(c, &input); err != nil {
		return err
	}
	service, err := h.catalog.Update(c.UserContext(), p, id, input)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Service updated successfully", fiber.Map{
		"service": service,
	})
}

// SetStatus godoc
// @Summary Activate or deactivate a service
// @Tags services
// @Accept json
// @Produce json
// @Param id path int true "Service ID"
// @Param body body object true "{\"status\": \"inactive\"}"
// @Success 200 {object} utils.Response
// @Router /services/{id}/status [patch]
func (h *ServiceController) SetStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var body struct {
		Status models.ServiceStatus `json:"status"`
	}
	if err := parseBody(c, &body); err != nil {
		return err
	}
	service, err := h.catalog.SetStatus(c.UserContext(), p, id, body.Status)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Service status updated successfully", fiber.Map{
		"service": service,
	})
}

// Delete godoc
// @Summary Delete a service
// @Tags services
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /services/{id} [delete]
func (h *ServiceController) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.UserContext(), p, id); err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Service deleted successfully", nil)
}

// Upload godoc
// @Summary Upload a service image
// @Tags services
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} utils.Response
// @Router /services/upload [post]
func (h *ServiceController) Upload(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("image")
	if err != nil {
		return apperrors.Validation("Image is required")
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.Validation("Cannot read uploaded image")
	}
	defer file.Close()

	folder := path.Join("services", strconv.FormatUint(uint64(p.ID), 10))
	result, err := h.catalog.UploadImage(c.UserContext(), file, folder)
	if err != nil {
		return err
	}
	return utils.Send(c, fiber.StatusOK, "Image uploaded successfully", result)
}
