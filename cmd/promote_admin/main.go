package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/internal/database"
	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/pkg/logger"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "", "email of the user to promote")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: promote_admin -email user@example.com")
		os.Exit(2)
	}

	config.LoadConfig()
	logger.Init(config.AppConfig.Env)

	db, err := database.Connect(config.AppConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	ctx := context.Background()
	repo := repository.New(db)

	user, err := repo.FindUserByEmail(ctx, *email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Fatal().Str("email", *email).Msg("User not found")
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to look up user")
	}
	if user.DeletedAt.Valid {
		logger.Fatal().Str("email", *email).Msg("User account is deleted")
	}

	if err := repo.SetUserRole(ctx, user.ID, models.RoleAdmin); err != nil {
		logger.Fatal().Err(err).Msg("Failed to update user role")
	}

	fmt.Printf("Successfully promoted %s (%s) to ADMIN.\n", user.Name, user.Email)
}
