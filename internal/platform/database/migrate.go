// File: internal/platform/database/migrate.go
package database

import (
	"servicehub_backend/internal/category"
	"servicehub_backend/internal/user"

	"gorm.io/gorm"
)

// AutoMigrate brings the profile-store schema up to date for every
// registered model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&category.Category{},
	)
}
