package database

import (
	"fmt"
	"time"

	"github.com/visaflow/backend/internal/config"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/queue"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the database connection with configuration
func InitDB(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dbConfig.URL), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdle)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate runs AutoMigrate for every model as a catch-up after the
// versioned migrations. New columns land here first during development;
// schema changes that need data movement get a proper migration.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Country{},
		&models.VisaType{},
		&models.VisaApplication{},
		&models.ApplicationStatusHistory{},
		&models.PaymentOrder{},
		&models.Notification{},
		&models.SystemSetting{},
		&queue.Job{},
	)
}
