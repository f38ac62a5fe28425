// Package seeds holds reference data loaded by cmd/seeder.
package seeds

import (
	"context"

	"github.com/google/uuid"
	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/pkg/logger"
)

// CategoryNames is the catalog's starting category set. The spellings match the
// rows already present in deployed databases.
var CategoryNames = []string{
	"Ditigal literacy",
	"Music",
	"Networking",
	"Web Design",
	"Web Development",
	"Python Developement",
}

// SeedCategories inserts any missing category and returns how many were created.
func SeedCategories(ctx context.Context, repo *repository.Repository) (int, error) {
	categories := make([]models.Category, 0, len(CategoryNames))
	for _, name := range CategoryNames {
		categories = append(categories, models.Category{ID: uuid.New().String(), Name: name})
	}

	created, err := repo.EnsureCategories(ctx, categories)
	if err != nil {
		return created, err
	}
	logger.Info().Int("created", created).Int("total", len(CategoryNames)).Msg("Categories seeded")
	return created, nil
}
