package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/meinhoongagan/kure-api/models"
)

// Migrate creates or updates the four core tables.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Provider{},
		&models.Service{},
		&models.Appointment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
