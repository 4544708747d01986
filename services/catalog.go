package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/repository"
	"github.com/meinhoongagan/kure-api/utils"
)

// ImageUploader stores an image and returns where it can be fetched.
type ImageUploader interface {
	Upload(ctx context.Context, file interface{}, subfolder string) (utils.UploadResult, error)
}

type ServiceInput struct {
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description" validate:"required"`
	Amount      decimal.Decimal        `json:"amount"`
	Category    models.ServiceCategory `json:"category" validate:"required"`
	Image       string                 `json:"image" validate:"required,http_url"`
	Thumbnail   string                 `json:"thumbnail" validate:"omitempty,http_url"`
}

// ServiceUpdate carries the fields a provider may change; nil means unchanged.
type ServiceUpdate struct {
	Name        *string                 `json:"name" validate:"omitempty,min=1"`
	Description *string                 `json:"description" validate:"omitempty,min=1"`
	Amount      *decimal.Decimal        `json:"amount"`
	Category    *models.ServiceCategory `json:"category"`
	Image       *string                 `json:"image" validate:"omitempty,http_url"`
	Thumbnail   *string                 `json:"thumbnail" validate:"omitempty,http_url"`
}

type CatalogService struct {
	services repository.ServiceRepository
	uploader ImageUploader
	log      *zap.Logger
}

func NewCatalogService(services repository.ServiceRepository, uploader ImageUploader, log *zap.Logger) *CatalogService {
	return &CatalogService{
		services: services,
		uploader: uploader,
		log:      log.Named("catalog"),
	}
}

func (s *CatalogService) Create(ctx context.Context, p models.Principal, input ServiceInput) (*models.Service, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if !input.Category.Valid() {
		return nil, apperrors.Validation("Invalid category")
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.Validation("Invalid amount")
	}

	service := &models.Service{
		ProviderID:  p.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Amount:      input.Amount.Round(2),
		Category:    input.Category,
		Status:      models.ServiceActive,
		Image:       input.Image,
		Thumbnail:   input.Thumbnail,
	}
	if err := s.services.Create(ctx, service); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, apperrors.Validation("You already have a service with this name")
		}
		return nil, apperrors.Internal("Failed to create service", err)
	}

	s.log.Info("service created", zap.Uint("service_id", service.ID), zap.Uint("provider_id", p.ID))
	return service, nil
}

func (s *CatalogService) Update(ctx context.Context, p models.Principal, id uint, input ServiceUpdate) (*models.Service, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, apperrors.Validation("Invalid amount")
		}
		fields["amount"] = input.Amount.Round(2)
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, apperrors.Validation("Invalid category")
		}
		fields["category"] = *input.Category
	}
	if input.Image != nil {
		fields["image"] = *input.Image
	}
	if input.Thumbnail != nil {
		fields["thumbnail"] = *input.Thumbnail
	}
	if len(fields) == 0 {
		return nil, apperrors.Validation("Nothing to update")
	}

	return s.applyOwned(ctx, p, id, fields, "Failed to update service")
}

func (s *CatalogService) SetStatus(ctx context.Context, p models.Principal, id uint, status models.ServiceStatus) (*models.Service, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid status")
	}
	return s.applyOwned(ctx, p, id, map[string]interface{}{"status": status}, "Failed to update service status")
}

// Delete removes a service. Providers may delete their own; admins any.
func (s *CatalogService) Delete(ctx context.Context, p models.Principal, id uint) error {
	owner := p.ID
	if p.Role == models.RoleAdmin {
		owner = 0
	}
	affected, err := s.services.DeleteOwned(ctx, id, owner)
	if err != nil {
		return apperrors.Internal("Failed to delete service", err)
	}
	if affected == 0 {
		return s.classifyOwned(ctx, p, id, "Failed to delete service")
	}
	s.log.Info("service deleted", zap.Uint("service_id", id), zap.Uint("provider_id", p.ID))
	return nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Service, error) {
	service, err := s.services.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, apperrors.NotFound("Service not found")
		}
		return nil, apperrors.Internal("Failed to fetch service", err)
	}
	return service, nil
}

func (s *CatalogService) ListMine(ctx context.Context, p models.Principal) ([]models.Service, error) {
	services, err := s.services.ListByProvider(ctx, p.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch services", err)
	}
	return services, nil
}

func (s *CatalogService) ListActive(ctx context.Context) ([]models.Service, error) {
	services, err := s.services.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch services", err)
	}
	return services, nil
}

func (s *CatalogService) Categories() []models.ServiceCategory {
	return models.ServiceCategories
}

// UploadImage stores a service image under the provider's folder.
func (s *CatalogService) UploadImage(ctx context.Context, file interface{}, folder string) (utils.UploadResult, error) {
	if file == nil {
		return utils.UploadResult{}, apperrors.Validation("Image is required")
	}
	if folder == "" {
		folder = "services"
	}
	result, err := s.uploader.Upload(ctx, file, folder)
	if err != nil {
		return utils.UploadResult{}, apperrors.Internal("Failed to upload image", err)
	}
	return result, nil
}

func (s *CatalogService) applyOwned(ctx context.Context, p models.Principal, id uint, fields map[string]interface{}, failure string) (*models.Service, error) {
	affected, err := s.services.UpdateOwned(ctx, id, p.ID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, apperrors.Validation("You already have a service with this name")
		}
		return nil, apperrors.Internal(failure, err)
	}
	if affected == 0 {
		return nil, s.classifyOwned(ctx, p, id, failure)
	}

	service, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(failure, err)
	}
	return service, nil
}

func (s *CatalogService) classifyOwned(ctx context.Context, p models.Principal, id uint, failure string) error {
	service, err := s.services.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return apperrors.NotFound("Service not found")
		}
		return apperrors.Internal(failure, err)
	}
	if service.ProviderID != p.ID && p.Role != models.RoleAdmin {
		return apperrors.Forbidden("Not authorized to modify this service")
	}
	return apperrors.Internal(failure, errors.New("owned service was not modified"))
}
