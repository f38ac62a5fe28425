package repository

import (
	"context"

	"github.com/pushp314/coursehub-backend/internal/models"
)

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.conn(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.conn(ctx).Create(category).Error
}

func (r *Repository) CategoryExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// EnsureCategories inserts the categories whose name does not exist yet.
func (r *Repository) EnsureCategories(ctx context.Context, categories []models.Category) (int, error) {
	created := 0
	for i := range categories {
		var count int64
		if err := r.conn(ctx).Model(&models.Category{}).Where("name = ?", categories[i].Name).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		if err := r.conn(ctx).Create(&categories[i]).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
