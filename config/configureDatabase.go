package config

import (
	"fmt"
	"time"

	"movein-backend/db/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// AllModels defines all models that should be migrated.
// Profiles come first so card and notice foreign keys resolve.
var AllModels = []interface{}{
	&models.Account{},
	&models.Profile{},
	&models.MoveInCard{},
	&models.Notice{},
	&models.Complaint{},
}

func ConfigureDatabase(s *Settings) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		s.DBHost, s.DBUser, s.DBPassword, s.DBName, s.DBPort, s.DBTimezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(AllModels...); err != nil {
		return nil, fmt.Errorf("migrate tables: %w", err)
	}
	Logger.Info("Tables migrated successfully", zap.Int("models", len(AllModels)))

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying DB connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	Logger.Info("Database setup complete",
		zap.String("host", s.DBHost),
		zap.String("database", s.DBName),
	)
	return db, nil
}
