package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tuanphatnh/thptapp/config"
	"github.com/tuanphatnh/thptapp/models"
)

// Connect opens the Postgres connection and migrates the schema.
// The returned handle is passed down to every handler; there is no
// package-level singleton, the caller owns the lifecycle.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// Duplicate-key and FK failures come back as gorm.ErrDuplicatedKey /
		// gorm.ErrForeignKeyViolated instead of raw driver errors.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs AutoMigrate for every model, in FK dependency order.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Class{},
		&models.RuleType{},
		&models.User{},
		&models.TimetableSlot{},
		&models.LogbookEntry{},
		&models.LogbookViolation{},
		&models.ViolationReport{},
		&models.WeeklyRanking{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
