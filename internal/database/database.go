package database

import (
	"fmt"
	"time"

	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/internal/migrations"
	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL pool described by cfg.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.Env == "development" {
		logLevel = gormlogger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Production-grade connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	logger.Info().Int("max_open", 25).Int("max_idle", 10).Msg("Connected to PostgreSQL")
	return db, nil
}

// Ping checks that the pool can still reach the database.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Migrate creates the tables for every model, then applies the versioned migrations.
func Migrate(db *gorm.DB) error {
	logger.Info().Msg("Running database migrations (stage 1: tables)")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	logger.Info().Msg("Running database migrations (stage 2: versioned)")
	if err := migrations.NewMigrator(db).Run(); err != nil {
		return err
	}
	logger.Info().Msg("Database migrations complete")
	return nil
}
