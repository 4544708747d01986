package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/meinhoongagan/kure-api/models"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrDuplicateName   = errors.New("service with this name already exists")
)

type ServiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	// UpdateOwned applies fields to the service only when it belongs to
	// providerID and reports the rows changed.
	UpdateOwned(ctx context.Context, id, providerID uint, fields map[string]interface{}) (int64, error)
	// DeleteOwned removes the service; a zero providerID skips the owner check.
	DeleteOwned(ctx context.Context, id, providerID uint) (int64, error)
	ListByProvider(ctx context.Context, providerID uint) ([]models.Service, error)
	ListActive(ctx context.Context) ([]models.Service, error)
	CountByProvider(ctx context.Context, providerID uint, status models.ServiceStatus) (int64, error)
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) FindByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).First(&service, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	err := r.db.WithContext(ctx).Create(service).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return err
}

func (r *serviceRepository) UpdateOwned(ctx context.Context, id, providerID uint, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id = ? AND provider_id = ?", id, providerID).
		Updates(fields)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return 0, ErrDuplicateName
	}
	return result.RowsAffected, result.Error
}

func (r *serviceRepository) DeleteOwned(ctx context.Context, id, providerID uint) (int64, error) {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	if providerID != 0 {
		q = q.Where("provider_id = ?", providerID)
	}
	result := q.Delete(&models.Service{})
	return result.RowsAffected, result.Error
}

func (r *serviceRepository) ListByProvider(ctx context.Context, providerID uint) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&services).Error
	return services, err
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ServiceActive).
		Order("created_at DESC").
		Find(&services).Error
	return services, err
}

// CountByProvider counts a provider's services; an empty status counts all.
func (r *serviceRepository) CountByProvider(ctx context.Context, providerID uint, status models.ServiceStatus) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Service{}).Where("provider_id = ?", providerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}
