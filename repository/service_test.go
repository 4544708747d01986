package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/kure-api/models"
)

func TestServiceRepository_DeleteOwnedScopesToProvider(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewServiceRepository(gdb)

	mock.ExpectExec(`DELETE FROM "services" WHERE id = \$1 AND provider_id = \$2`).
		WithArgs(8, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.DeleteOwned(context.Background(), 8, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepository_DeleteOwnedAsAdmin(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewServiceRepository(gdb)

	mock.ExpectExec(`DELETE FROM "services" WHERE id = \$1$`).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.DeleteOwned(context.Background(), 8, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepository_CountByProvider(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewServiceRepository(gdb)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "services" WHERE provider_id = \$1 AND status = \$2`).
		WithArgs(2, "active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByProvider(context.Background(), 2, models.ServiceActive)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPKeyNormalisesEmail(t *testing.T) {
	assert.Equal(t, "otp:register:alice@example.com", otpKey("register", " Alice@Example.COM "))
	assert.Equal(t, "otp:forgot-password:bob@example.com", otpKey("forgot-password", "bob@example.com"))
}

func TestProviderRepository_FindByMobileMissing(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewProviderRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "providers" WHERE mobile = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByMobile(context.Background(), "9990001111")

	assert.ErrorIs(t, err, ErrProviderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
