package main

import (
	"context"

	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/internal/database"
	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/internal/seeds"
	"github.com/pushp314/coursehub-backend/pkg/logger"
)

func main() {
	config.LoadConfig()
	logger.Init(config.AppConfig.Env)

	db, err := database.Connect(config.AppConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	logger.Info().Msg("🔄 Running migrations (just in case)...")
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}

	if _, err := seeds.SeedCategories(context.Background(), repository.New(db)); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed categories")
	}
	logger.Info().Msg("✅ Seeding complete")
}
