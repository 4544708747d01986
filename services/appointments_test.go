package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/repository"
)

var (
	alice    = models.Principal{ID: 1, Role: models.RoleUser, Email: "alice@example.com"}
	mallory  = models.Principal{ID: 9, Role: models.RoleUser, Email: "mallory@example.com"}
	provider = models.Principal{ID: 2, Role: models.RoleProvider, Email: "clinic@example.com"}
	// Same numeric id as alice, different table.
	providerOne = models.Principal{ID: 1, Role: models.RoleProvider}
)

func newAppointmentService(t *testing.T) (*AppointmentService, *mockAppointmentRepo, *mockServiceRepo, *mockRecorder) {
	t.Helper()
	appts := new(mockAppointmentRepo)
	svcs := new(mockServiceRepo)
	rec := new(mockRecorder)
	return NewAppointmentService(appts, svcs, rec, zap.NewNop()), appts, svcs, rec
}

func validInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		ServiceID:       5,
		ProviderID:      2,
		AppointmentDate: "2026-10-20",
		AppointmentTime: "10:30",
		Address:         "12 Main St",
		Amount:          decimal.NewFromInt(50),
	}
}

func stored(id uint, status models.AppointmentStatus) *models.Appointment {
	return &models.Appointment{
		ID:              id,
		ServiceID:       5,
		ProviderID:      2,
		UserID:          1,
		AppointmentDate: "2026-10-20",
		AppointmentTime: "10:30",
		Address:         "12 Main St",
		Amount:          decimal.NewFromInt(50),
		Status:          status,
	}
}

func TestAppointmentService_CreateConfirmCancel(t *testing.T) {
	svc, appts, svcs, rec := newAppointmentService(t)
	ctx := context.Background()

	svcs.On("FindByID", ctx, uint(5)).Return(&models.Service{ID: 5, Name: "IV Drip", ProviderID: 2}, nil)
	appts.On("Create", ctx, mock.AnythingOfType("*models.Appointment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Appointment).ID = 10
		}).
		Return(nil)

	created, err := svc.Create(ctx, alice, validInput())
	require.NoError(t, err)
	assert.Equal(t, uint(10), created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.PaymentPending, created.PaymentStatus)
	assert.Equal(t, uint(1), created.UserID)
	require.NotNil(t, created.Service)
	assert.Equal(t, "IV Drip", created.Service.Name)

	appts.On("UpdateStatusWhere", ctx, repository.StatusUpdate{ID: 10, ProviderID: 2, To: models.StatusConfirmed}).
		Return(int64(1), nil)
	appts.On("FindDetailedByID", ctx, uint(10)).Return(stored(10, models.StatusConfirmed), nil).Once()
	rec.On("RecordTransition", models.StatusConfirmed).Return()

	confirmed, err := svc.UpdateStatus(ctx, provider, 10, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)

	appts.On("UpdateStatusWhere", ctx, repository.StatusUpdate{
		ID:     10,
		UserID: 1,
		From:   models.CancellableStatuses,
		To:     models.StatusCancelled,
	}).Return(int64(1), nil)
	appts.On("FindDetailedByID", ctx, uint(10)).Return(stored(10, models.StatusCancelled), nil).Once()
	rec.On("RecordTransition", models.StatusCancelled).Return()

	cancelled, err := svc.Cancel(ctx, alice, 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	appts.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestAppointmentService_CreateUnknownServiceWritesNothing(t *testing.T) {
	svc, appts, svcs, _ := newAppointmentService(t)
	ctx := context.Background()

	svcs.On("FindByID", ctx, uint(5)).Return(nil, repository.ErrServiceNotFound)

	_, err := svc.Create(ctx, alice, validInput())

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Equal(t, "Service not found", apperrors.PublicMessage(err))
	appts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAppointmentService_CreateValidation(t *testing.T) {
	cases := []struct {
		name  string
		p     models.Principal
		edit  func(*CreateAppointmentInput)
		kind  apperrors.Kind
		field string
	}{
		{"provider cannot book", provider, func(*CreateAppointmentInput) {}, apperrors.KindAuthorization, ""},
		{"missing address", alice, func(in *CreateAppointmentInput) { in.Address = "" }, apperrors.KindValidation, "address"},
		{"bad date", alice, func(in *CreateAppointmentInput) { in.AppointmentDate = "20/10/2026" }, apperrors.KindValidation, "appointmentDate"},
		{"zero amount", alice, func(in *CreateAppointmentInput) { in.Amount = decimal.Zero }, apperrors.KindValidation, "amount"},
		{"negative amount", alice, func(in *CreateAppointmentInput) { in.Amount = decimal.NewFromInt(-5) }, apperrors.KindValidation, "amount"},
		{"latitude out of range", alice, func(in *CreateAppointmentInput) {
			lat := 123.0
			in.Latitude = &lat
		}, apperrors.KindValidation, "latitude"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, appts, svcs, _ := newAppointmentService(t)
			input := validInput()
			tc.edit(&input)

			_, err := svc.Create(context.Background(), tc.p, input)

			require.Error(t, err)
			assert.Equal(t, tc.kind, apperrors.KindOf(err))
			if tc.field != "" {
				assert.Contains(t, apperrors.PublicMessage(err), tc.field)
			}
			svcs.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
			appts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAppointmentService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("participants may read", func(t *testing.T) {
		svc, appts, _, _ := newAppointmentService(t)
		appts.On("FindDetailedByID", ctx, uint(10)).Return(stored(10, models.StatusPending), nil)

		for _, p := range []models.Principal{alice, provider} {
			view, err := svc.GetByID(ctx, p, 10)
			require.NoError(t, err)
			assert.Equal(t, uint(10), view.ID)
		}
	})

	t.Run("ids are compared per role", func(t *testing.T) {
		svc, appts, _, _ := newAppointmentService(t)
		appts.On("FindDetailedByID", ctx, uint(10)).Return(stored(10, models.StatusPending), nil)

		_, err := svc.GetByID(ctx, providerOne, 10)
		assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))
	})

	t.Run("missing", func(t *testing.T) {
		svc, appts, _, _ := newAppointmentService(t)
		appts.On("FindDetailedByID", ctx, uint(11)).Return(nil, repository.ErrAppointmentNotFound)

		_, err := svc.GetByID(ctx, alice, 11)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})
}

func TestAppointmentService_CancelByStrangerIsForbidden(t *testing.T) {
	svc, appts, _, rec := newAppointmentService(t)
	ctx := context.Background()

	appts.On("UpdateStatusWhere", ctx, mock.AnythingOfType("repository.StatusUpdate")).Return(int64(0), nil)
	appts.On("Parties", ctx, uint(10)).Return(repository.Parties{UserID: 1, ProviderID: 2}, nil)

	_, err := svc.Cancel(ctx, mallory, 10)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))
	rec.AssertNotCalled(t, "RecordTransition", mock.Anything)
	appts.AssertNotCalled(t, "FindDetailedByID", mock.Anything, mock.Anything)
}

func TestAppointmentService_CancelFromCompletedConflicts(t *testing.T) {
	svc, appts, _, _ := newAppointmentService(t)
	ctx := context.Background()

	appts.On("UpdateStatusWhere", ctx, mock.AnythingOfType("repository.StatusUpdate")).Return(int64(0), nil)
	appts.On("Parties", ctx, uint(10)).Return(repository.Parties{UserID: 1, ProviderID: 2}, nil)

	_, err := svc.Cancel(ctx, alice, 10)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Equal(t, "Cannot cancel appointment in current status", apperrors.PublicMessage(err))
}

func TestAppointmentService_CancelMissing(t *testing.T) {
	svc, appts, _, _ := newAppointmentService(t)
	ctx := context.Background()

	appts.On("UpdateStatusWhere", ctx, mock.AnythingOfType("repository.StatusUpdate")).Return(int64(0), nil)
	appts.On("Parties", ctx, uint(99)).Return(repository.Parties{}, repository.ErrAppointmentNotFound)

	_, err := svc.Cancel(ctx, alice, 99)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestAppointmentService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("users cannot set status", func(t *testing.T) {
		svc, appts, _, _ := newAppointmentService(t)
		_, err := svc.UpdateStatus(ctx, alice, 10, models.StatusConfirmed)
		assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))
		appts.AssertNotCalled(t, "UpdateStatusWhere", mock.Anything, mock.Anything)
	})

	t.Run("invalid status from the owner", func(t *testing.T) {
		svc, appts, _, _ := newAppointmentService(t)
		appts.On("Parties", ctx, uint(10)).Return(repository.Parties{UserID: 1, ProviderID: 2}, nil)

		_, err := svc.UpdateStatus(ctx, provider, 10, "archived")
		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		assert.Equal(t, "Invalid status", apperrors.PublicMessage(err))
		appts.AssertNotCalled(t, "UpdateStatusWhere", mock.Anything, mock.Anything)
	})

	t.Run("invalid status from another provider", func(t *testing.T) {
		svc, appts, _, _ := newAppointmentService(t)
		appts.On("Parties", ctx, uint(10)).Return(repository.Parties{UserID: 1, ProviderID: 3}, nil)

		_, err := svc.UpdateStatus(ctx, provider, 10, "archived")
		assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))
	})

	t.Run("any to any is allowed", func(t *testing.T) {
		svc, appts, _, rec := newAppointmentService(t)
		appts.On("UpdateStatusWhere", ctx, repository.StatusUpdate{ID: 10, ProviderID: 2, To: models.StatusPending}).
			Return(int64(1), nil)
		appts.On("FindDetailedByID", ctx, uint(10)).Return(stored(10, models.StatusPending), nil)
		rec.On("RecordTransition", models.StatusPending).Return()

		view, err := svc.UpdateStatus(ctx, provider, 10, models.StatusPending)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, view.Status)
	})

	t.Run("storage failure is internal", func(t *testing.T) {
		svc, appts, _, _ := newAppointmentService(t)
		appts.On("UpdateStatusWhere", ctx, mock.AnythingOfType("repository.StatusUpdate")).
			Return(int64(0), errors.New("connection reset"))

		_, err := svc.UpdateStatus(ctx, provider, 10, models.StatusCompleted)
		assert.True(t, apperrors.Is(err, apperrors.KindInternal))
		assert.NotContains(t, apperrors.PublicMessage(err), "connection reset")
	})
}

func TestAppointmentService_ListForUser(t *testing.T) {
	svc, appts, _, _ := newAppointmentService(t)
	ctx := context.Background()

	appts.On("ListByUser", ctx, uint(1)).Return([]models.Appointment{*stored(2, models.StatusPending), *stored(1, models.StatusCompleted)}, nil)

	views, err := svc.ListForUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, uint(2), views[0].ID)
}
