package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meinhoongagan/kure-api/models"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// StatusCounts is the per-status breakdown of a set of appointments.
type StatusCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

// Totals is the row count and amount sum of a set of appointments.
type Totals struct {
	Count int64
	Sum   decimal.Decimal
}

// Parties identifies who an appointment belongs to.
type Parties struct {
	UserID     uint
	ProviderID uint
}

// StatusUpdate is a conditional status change. The update only applies when
// the row matches ID and, when set, the owner columns and one of From.
type StatusUpdate struct {
	ID         uint
	UserID     uint
	ProviderID uint
	From       []models.AppointmentStatus
	To         models.AppointmentStatus
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	FindDetailedByID(ctx context.Context, id uint) (*models.Appointment, error)
	Parties(ctx context.Context, id uint) (Parties, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Appointment, error)
	UpdateStatusWhere(ctx context.Context, update StatusUpdate) (int64, error)
	Find(ctx context.Context, filter AppointmentFilter, sort Sort, window Window) ([]models.Appointment, error)
	Count(ctx context.Context, filter AppointmentFilter) (int64, error)
	StatusCounts(ctx context.Context, filter AppointmentFilter) (StatusCounts, error)
	Totals(ctx context.Context, filter AppointmentFilter) (Totals, error)
	DistinctUsers(ctx context.Context, filter AppointmentFilter) (int64, error)
	ConfirmedOn(ctx context.Context, date string) ([]models.Appointment, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// withParties preloads the summary columns of the three references.
func withParties(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Service", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "description", "amount", "category", "image")
		}).
		Preload("Provider", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email", "mobile")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email", "mobile")
		})
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindDetailedByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := withParties(r.db.WithContext(ctx)).First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) Parties(ctx context.Context, id uint) (Parties, error) {
	var parties Parties
	result := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("user_id", "provider_id").
		Where("id = ?", id).
		Limit(1).
		Scan(&parties)
	if result.Error != nil {
		return Parties{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Parties{}, ErrAppointmentNotFound
	}
	return parties, nil
}

func (r *appointmentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := withParties(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) UpdateStatusWhere(ctx context.Context, update StatusUpdate) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", update.ID)
	if update.UserID != 0 {
		q = q.Where("user_id = ?", update.UserID)
	}
	if update.ProviderID != 0 {
		q = q.Where("provider_id = ?", update.ProviderID)
	}
	if len(update.From) > 0 {
		q = q.Where("status IN ?", update.From)
	}
	result := q.Update("status", update.To)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Find(ctx context.Context, filter AppointmentFilter, sort Sort, window Window) ([]models.Appointment, error) {
	var appointments []models.Appointment
	q := withParties(r.db.WithContext(ctx).Model(&models.Appointment{}))
	q = window.apply(sort.apply(filter.apply(q)))
	err := q.Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) Count(ctx context.Context, filter AppointmentFilter) (int64, error) {
	var count int64
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Appointment{})).Count(&count).Error
	return count, err
}

func (r *appointmentRepository) StatusCounts(ctx context.Context, filter AppointmentFilter) (StatusCounts, error) {
	var rows []struct {
		Status models.AppointmentStatus
		Count  int64
	}
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case models.StatusPending:
			counts.Pending = row.Count
		case models.StatusConfirmed:
			counts.Confirmed = row.Count
		case models.StatusCompleted:
			counts.Completed = row.Count
		case models.StatusCancelled:
			counts.Cancelled = row.Count
		}
	}
	return counts, nil
}

func (r *appointmentRepository) Totals(ctx context.Context, filter AppointmentFilter) (Totals, error) {
	var totals Totals
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS sum").
		Scan(&totals).Error
	return totals, err
}

func (r *appointmentRepository) DistinctUsers(ctx context.Context, filter AppointmentFilter) (int64, error) {
	var count int64
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

// ConfirmedOn lists confirmed appointments scheduled on date, with their
// user, provider and service loaded for notification.
func (r *appointmentRepository) ConfirmedOn(ctx context.Context, date string) ([]models.Appointment, error) {
	return r.Find(ctx, AppointmentFilter{
		Statuses:        []models.AppointmentStatus{models.StatusConfirmed},
		AppointmentDate: date,
	}, Sort{Column: "appointment_time"}, Window{})
}
