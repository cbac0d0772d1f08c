package database

import (
	"fmt"

	"backend/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Vendor{},
		&model.Department{},
		&model.CapexEntry{},
		&model.BillingRecord{},
		&model.AppNotification{},
		&model.Setting{},
	)
}

// NewConnection initializes the hosted-store connection pool using GORM.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("auto-migrate failed: %w", err)
	}
	return db, nil
}

// NewFallbackConnection opens the local SQLite fallback store, used when the
// hosted store is unreachable or the service runs in offline mode. The same
// schema is migrated so records and notifications round-trip either way.
func NewFallbackConnection(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("auto-migrate failed: %w", err)
	}
	return db, nil
}

// SeedDefaultSettings inserts the budget settings rows when absent so the
// dashboard always has something to read. Values default to zero (budgets
// disabled) and are editable by admins.
func SeedDefaultSettings(db *gorm.DB) error {
	defaults := []model.Setting{
		{Key: model.SettingTotalCapexBudget, Value: "0"},
		{Key: model.SettingMonthlyCapexLimit, Value: "0"},
		{Key: model.SettingTotalBillingBudget, Value: "0"},
		{Key: model.SettingMonthlyBillingLimit, Value: "0"},
	}
	for _, s := range defaults {
		var existing model.Setting
		if err := db.First(&existing, "key = ?", s.Key).Error; err == nil {
			continue
		}
		if err := db.Create(&s).Error; err != nil {
			return fmt.Errorf("seed setting %s: %w", s.Key, err)
		}
	}
	return nil
}
