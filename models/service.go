package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceStatus string

const (
	ServiceActive   ServiceStatus = "active"
	ServiceInactive ServiceStatus = "inactive"
)

func (s ServiceStatus) Valid() bool {
	return s == ServiceActive || s == ServiceInactive
}

type ServiceCategory string

// ServiceCategories lists the accepted categories in display order.
var ServiceCategories = []ServiceCategory{"hydration", "hydration1", "hydration2", "hydration3"}

func (c ServiceCategory) Valid() bool {
	for _, known := range ServiceCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Service is owned by exactly one provider; the (provider, name) pair is unique.
type Service struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProviderID  uint            `json:"providerId" gorm:"not null;uniqueIndex:idx_services_provider_name"`
	Provider    *Provider       `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Name        string          `json:"name" gorm:"not null;uniqueIndex:idx_services_provider_name"`
	Description string          `json:"description" gorm:"not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Category    ServiceCategory `json:"category" gorm:"type:varchar(32);not null;index"`
	Status      ServiceStatus   `json:"status" gorm:"type:varchar(16);default:active;index"`
	Image       string          `json:"image" gorm:"not null"`
	Thumbnail   string          `json:"thumbnail"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ServiceSummary is the slice of a Service inlined into appointment views.
type ServiceSummary struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    ServiceCategory `json:"category"`
	Image       string          `json:"image"`
}

func (s *Service) Summary() *ServiceSummary {
	if s == nil {
		return nil
	}
	return &ServiceSummary{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Amount:      s.Amount,
		Category:    s.Category,
		Image:       s.Image,
	}
}
