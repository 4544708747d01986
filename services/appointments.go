package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/repository"
)

// TransitionRecorder counts successful status changes.
type TransitionRecorder interface {
	RecordTransition(to models.AppointmentStatus)
}

type CreateAppointmentInput struct {
	ServiceID       uint            `json:"serviceId" validate:"required"`
	ProviderID      uint            `json:"providerId" validate:"required"`
	AppointmentDate string          `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	AppointmentTime string          `json:"appointmentTime" validate:"required"`
	Address         string          `json:"address" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Notes           string          `json:"notes"`
	Latitude        *float64        `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64        `json:"longitude" validate:"omitempty,longitude"`
}

// AppointmentService owns the appointment lifecycle: booking, lookup and
// status changes. Every status change is a single conditional UPDATE; a
// zero-row result is classified by re-reading the appointment's parties.
type AppointmentService struct {
	appointments repository.AppointmentRepository
	services     repository.ServiceRepository
	recorder     TransitionRecorder
	log          *zap.Logger
}

func NewAppointmentService(
	appointments repository.AppointmentRepository,
	services repository.ServiceRepository,
	recorder TransitionRecorder,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		services:     services,
		recorder:     recorder,
		log:          log.Named("appointments"),
	}
}

// Create books an appointment for the calling user. The provider id is taken
// as given and is not checked against the service's owner.
func (s *AppointmentService) Create(ctx context.Context, p models.Principal, input CreateAppointmentInput) (*models.AppointmentView, error) {
	if p.Role != models.RoleUser {
		return nil, apperrors.Forbidden("Only users can book appointments")
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.Validation("amount must be greater than 0")
	}

	service, err := s.services.FindByID(ctx, input.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, apperrors.NotFound("Service not found")
		}
		return nil, apperrors.Internal("Failed to create appointment", err)
	}

	appointment := &models.Appointment{
		ServiceID:       input.ServiceID,
		ProviderID:      input.ProviderID,
		UserID:          p.ID,
		AppointmentDate: input.AppointmentDate,
		AppointmentTime: input.AppointmentTime,
		Address:         input.Address,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Notes:           input.Notes,
		Amount:          input.Amount.Round(2),
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentPending,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, apperrors.Internal("Failed to create appointment", err)
	}

	s.log.Info("appointment created",
		zap.Uint("appointment_id", appointment.ID),
		zap.Uint("user_id", p.ID),
		zap.Uint("provider_id", input.ProviderID),
		zap.Uint("service_id", input.ServiceID))

	appointment.Service = service
	view := appointment.View()
	return &view, nil
}

func (s *AppointmentService) GetByID(ctx context.Context, p models.Principal, id uint) (*models.AppointmentView, error) {
	appointment, err := s.appointments.FindDetailedByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, apperrors.NotFound("Appointment not found")
		}
		return nil, apperrors.Internal("Failed to fetch appointment", err)
	}
	if !p.IsUser(appointment.UserID) && !p.IsProvider(appointment.ProviderID) {
		return nil, apperrors.Forbidden("Not authorized to view this appointment")
	}

	view := appointment.View()
	return &view, nil
}

func (s *AppointmentService) ListForUser(ctx context.Context, p models.Principal) ([]models.AppointmentView, error) {
	appointments, err := s.appointments.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch appointments", err)
	}
	return models.Views(appointments), nil
}

// UpdateStatus lets the appointment's provider move it to any of the four
// statuses. No transition graph is enforced here.
func (s *AppointmentService) UpdateStatus(ctx context.Context, p models.Principal, id uint, status models.AppointmentStatus) (*models.AppointmentView, error) {
	if p.Role != models.RoleProvider {
		return nil, apperrors.Forbidden("Not authorized to update this appointment")
	}

	if !status.Valid() {
		// Ownership is reported before the bad value.
		if err := s.classify(ctx, id, func(parties repository.Parties) bool {
			return p.IsProvider(parties.ProviderID)
		}, "Not authorized to update this appointment"); err != nil {
			return nil, err
		}
		return nil, apperrors.Validation("Invalid status")
	}

	affected, err := s.appointments.UpdateStatusWhere(ctx, repository.StatusUpdate{
		ID:         id,
		ProviderID: p.ID,
		To:         status,
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to update appointment status", err)
	}
	if affected == 0 {
		if err := s.classify(ctx, id, func(parties repository.Parties) bool {
			return p.IsProvider(parties.ProviderID)
		}, "Not authorized to update this appointment"); err != nil {
			return nil, err
		}
		return nil, apperrors.Conflict("Appointment could not be updated")
	}

	return s.afterTransition(ctx, id, status, "Failed to update appointment status")
}

// Cancel lets the appointment's user cancel it while it is still pending or
// confirmed.
func (s *AppointmentService) Cancel(ctx context.Context, p models.Principal, id uint) (*models.AppointmentView, error) {
	if p.Role != models.RoleUser {
		return nil, apperrors.Forbidden("Not authorized to cancel this appointment")
	}

	affected, err := s.appointments.UpdateStatusWhere(ctx, repository.StatusUpdate{
		ID:     id,
		UserID: p.ID,
		From:   models.CancellableStatuses,
		To:     models.StatusCancelled,
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to cancel appointment", err)
	}
	if affected == 0 {
		if err := s.classify(ctx, id, func(parties repository.Parties) bool {
			return p.IsUser(parties.UserID)
		}, "Not authorized to cancel this appointment"); err != nil {
			return nil, err
		}
		return nil, apperrors.Conflict("Cannot cancel appointment in current status")
	}

	return s.afterTransition(ctx, id, models.StatusCancelled, "Failed to cancel appointment")
}

// classify explains why a conditional update touched nothing. It returns nil
// when the caller owns the appointment, leaving the state precondition as the
// remaining cause.
func (s *AppointmentService) classify(ctx context.Context, id uint, owns func(repository.Parties) bool, forbidden string) error {
	parties, err := s.appointments.Parties(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return apperrors.NotFound("Appointment not found")
		}
		return apperrors.Internal("Failed to fetch appointment", err)
	}
	if !owns(parties) {
		return apperrors.Forbidden(forbidden)
	}
	return nil
}

func (s *AppointmentService) afterTransition(ctx context.Context, id uint, to models.AppointmentStatus, failure string) (*models.AppointmentView, error) {
	if s.recorder != nil {
		s.recorder.RecordTransition(to)
	}
	s.log.Info("appointment status changed",
		zap.Uint("appointment_id", id),
		zap.String("status", string(to)))

	appointment, err := s.appointments.FindDetailedByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(failure, err)
	}
	view := appointment.View()
	return &view, nil
}
