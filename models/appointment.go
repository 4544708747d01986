package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts go out as JSON numbers, matching what clients already parse.
	decimal.MarshalJSONWithoutQuotes = true
}

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentStatuses lists every status in lifecycle order.
var AppointmentStatuses = []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// CancellableStatuses are the states a user may cancel from.
var CancellableStatuses = []AppointmentStatus{StatusPending, StatusConfirmed}

func (s AppointmentStatus) Valid() bool {
	for _, known := range AppointmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Appointment joins one user, one provider and one service. Date and time
// are kept as separate strings; AppointmentDate is YYYY-MM-DD so that
// lexicographic comparison orders by day.
type Appointment struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	ServiceID       uint              `json:"serviceId" gorm:"not null;index"`
	Service         *Service          `json:"-" gorm:"foreignKey:ServiceID"`
	ProviderID      uint              `json:"providerId" gorm:"not null;index"`
	Provider        *Provider         `json:"-" gorm:"foreignKey:ProviderID"`
	UserID          uint              `json:"userId" gorm:"not null;index"`
	User            *User             `json:"-" gorm:"foreignKey:UserID"`
	AppointmentDate string            `json:"appointmentDate" gorm:"type:varchar(10);not null;index"`
	AppointmentTime string            `json:"appointmentTime" gorm:"type:varchar(16);not null"`
	Address         string            `json:"address" gorm:"not null"`
	Latitude        *float64          `json:"latitude,omitempty"`
	Longitude       *float64          `json:"longitude,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Amount          decimal.Decimal   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Status          AppointmentStatus `json:"status" gorm:"type:varchar(16);not null;default:pending;index"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus" gorm:"type:varchar(16);not null;default:pending"`
	CreatedAt       time.Time         `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentPending
	}
	return nil
}

// AppointmentView is an appointment with its references inlined. A reference
// that no longer resolves is rendered as null.
type AppointmentView struct {
	ID              uint              `json:"id"`
	ServiceID       uint              `json:"serviceId"`
	ProviderID      uint              `json:"providerId"`
	UserID          uint              `json:"userId"`
	Service         *ServiceSummary   `json:"service"`
	Provider        *PartySummary     `json:"provider,omitempty"`
	User            *PartySummary     `json:"user,omitempty"`
	AppointmentDate string            `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	Address         string            `json:"address"`
	Latitude        *float64          `json:"latitude,omitempty"`
	Longitude       *float64          `json:"longitude,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`
	Status          AppointmentStatus `json:"status"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (a *Appointment) View() AppointmentView {
	return AppointmentView{
		ID:              a.ID,
		ServiceID:       a.ServiceID,
		ProviderID:      a.ProviderID,
		UserID:          a.UserID,
		Service:         a.Service.Summary(),
		Provider:        a.Provider.Summary(),
		User:            a.User.Summary(),
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
		Address:         a.Address,
		Latitude:        a.Latitude,
		Longitude:       a.Longitude,
		Notes:           a.Notes,
		Amount:          a.Amount,
		Status:          a.Status,
		PaymentStatus:   a.PaymentStatus,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func Views(appointments []Appointment) []AppointmentView {
	views := make([]AppointmentView, 0, len(appointments))
	for i := range appointments {
		views = append(views, appointments[i].View())
	}
	return views
}
