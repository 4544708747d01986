package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/kure-api/models"
)

// AppointmentFilter narrows appointment queries. Zero values are ignored.
type AppointmentFilter struct {
	ProviderID      uint
	UserID          uint
	Statuses        []models.AppointmentStatus
	FromDate        string
	ToDate          string
	AppointmentDate string
	CreatedFrom     time.Time
	CreatedTo       time.Time
}

func (f AppointmentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.ProviderID != 0 {
		q = q.Where("provider_id = ?", f.ProviderID)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	switch len(f.Statuses) {
	case 0:
	case 1:
		q = q.Where("status = ?", f.Statuses[0])
	default:
		q = q.Where("status IN ?", f.Statuses)
	}
	// Dates are YYYY-MM-DD strings, so string comparison orders them.
	if f.FromDate != "" {
		q = q.Where("appointment_date >= ?", f.FromDate)
	}
	if f.ToDate != "" {
		q = q.Where("appointment_date <= ?", f.ToDate)
	}
	if f.AppointmentDate != "" {
		q = q.Where("appointment_date = ?", f.AppointmentDate)
	}
	if !f.CreatedFrom.IsZero() {
		q = q.Where("created_at >= ?", f.CreatedFrom)
	}
	if !f.CreatedTo.IsZero() {
		q = q.Where("created_at < ?", f.CreatedTo)
	}
	return q
}

// Sort orders a listing by a column name already checked by the caller.
type Sort struct {
	Column string
	Desc   bool
}

func (s Sort) apply(q *gorm.DB) *gorm.DB {
	if s.Column == "" {
		s.Column = "created_at"
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	if s.Column != "id" {
		// Ties break on id so pages do not overlap.
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: s.Desc})
	}
	return q
}

// Window bounds a listing. A zero Limit means no limit.
type Window struct {
	Offset int
	Limit  int
}

func (w Window) apply(q *gorm.DB) *gorm.DB {
	if w.Offset > 0 {
		q = q.Offset(w.Offset)
	}
	if w.Limit > 0 {
		q = q.Limit(w.Limit)
	}
	return q
}
