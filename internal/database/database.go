package database

import (
	"fmt"

	"github.com/rolevault/rolevault/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the sqlite database and ensures the schema exists.
// TranslateError is enabled so unique-constraint violations come back as
// gorm.ErrDuplicatedKey instead of a driver-specific error string.
func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(&models.Guild{}, &models.Grant{}, &models.Code{}, &models.Redemption{})
	if err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return db, nil
}
