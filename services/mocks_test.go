package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/repository"
	"github.com/meinhoongagan/kure-api/utils"
)

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) Create(ctx context.Context, a *models.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAppointmentRepo) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) FindDetailedByID(ctx context.Context, id uint) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) Parties(ctx context.Context, id uint) (repository.Parties, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repository.Parties), args.Error(1)
}

func (m *mockAppointmentRepo) ListByUser(ctx context.Context, userID uint) ([]models.Appointment, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]models.Appointment)
	return rows, args.Error(1)
}

func (m *mockAppointmentRepo) UpdateStatusWhere(ctx context.Context, update repository.StatusUpdate) (int64, error) {
	args := m.Called(ctx, update)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentRepo) Find(ctx context.Context, filter repository.AppointmentFilter, sort repository.Sort, window repository.Window) ([]models.Appointment, error) {
	args := m.Called(ctx, filter, sort, window)
	rows, _ := args.Get(0).([]models.Appointment)
	return rows, args.Error(1)
}

func (m *mockAppointmentRepo) Count(ctx context.Context, filter repository.AppointmentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentRepo) StatusCounts(ctx context.Context, filter repository.AppointmentFilter) (repository.StatusCounts, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(repository.StatusCounts), args.Error(1)
}

func (m *mockAppointmentRepo) Totals(ctx context.Context, filter repository.AppointmentFilter) (repository.Totals, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(repository.Totals), args.Error(1)
}

func (m *mockAppointmentRepo) DistinctUsers(ctx context.Context, filter repository.AppointmentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentRepo) ConfirmedOn(ctx context.Context, date string) ([]models.Appointment, error) {
	args := m.Called(ctx, date)
	rows, _ := args.Get(0).([]models.Appointment)
	return rows, args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) FindByID(ctx context.Context, id uint) (*models.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Service)
	return s, args.Error(1)
}

func (m *mockServiceRepo) Create(ctx context.Context, service *models.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *mockServiceRepo) UpdateOwned(ctx context.Context, id, providerID uint, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, providerID, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceRepo) DeleteOwned(ctx context.Context, id, providerID uint) (int64, error) {
	args := m.Called(ctx, id, providerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceRepo) ListByProvider(ctx context.Context, providerID uint) ([]models.Service, error) {
	args := m.Called(ctx, providerID)
	rows, _ := args.Get(0).([]models.Service)
	return rows, args.Error(1)
}

func (m *mockServiceRepo) ListActive(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]models.Service)
	return rows, args.Error(1)
}

func (m *mockServiceRepo) CountByProvider(ctx context.Context, providerID uint, status models.ServiceStatus) (int64, error) {
	args := m.Called(ctx, providerID, status)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) MarkVerified(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, email, hash string) (int64, error) {
	args := m.Called(ctx, email, hash)
	return args.Get(0).(int64), args.Error(1)
}

type mockProviderRepo struct{ mock.Mock }

func (m *mockProviderRepo) FindByID(ctx context.Context, id uint) (*models.Provider, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Provider)
	return p, args.Error(1)
}

func (m *mockProviderRepo) FindByEmail(ctx context.Context, email string) (*models.Provider, error) {
	args := m.Called(ctx, email)
	p, _ := args.Get(0).(*models.Provider)
	return p, args.Error(1)
}

func (m *mockProviderRepo) FindByMobile(ctx context.Context, mobile string) (*models.Provider, error) {
	args := m.Called(ctx, mobile)
	p, _ := args.Get(0).(*models.Provider)
	return p, args.Error(1)
}

func (m *mockProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

func (m *mockProviderRepo) UpdatePassword(ctx context.Context, email, hash string) (int64, error) {
	args := m.Called(ctx, email, hash)
	return args.Get(0).(int64), args.Error(1)
}

type mockOTPStore struct{ mock.Mock }

func (m *mockOTPStore) Save(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	return m.Called(ctx, purpose, email, code, ttl).Error(0)
}

func (m *mockOTPStore) Get(ctx context.Context, purpose, email string) (string, error) {
	args := m.Called(ctx, purpose, email)
	return args.String(0), args.Error(1)
}

func (m *mockOTPStore) Delete(ctx context.Context, purpose, email string) error {
	return m.Called(ctx, purpose, email).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) RecordTransition(to models.AppointmentStatus) {
	m.Called(to)
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) Upload(ctx context.Context, file interface{}, subfolder string) (utils.UploadResult, error) {
	args := m.Called(ctx, file, subfolder)
	return args.Get(0).(utils.UploadResult), args.Error(1)
}
