package repository

import (
	"context"

	"github.com/pushp314/coursehub-backend/internal/models"
	"gorm.io/gorm/clause"
)

// FindPurchase returns nil without error when the user has not purchased the course.
func (r *Repository) FindPurchase(ctx context.Context, userID, courseID string) (*models.Purchase, error) {
	var purchase models.Purchase
	res := r.conn(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).Limit(1).Find(&purchase)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &purchase, nil
}

// PurchasedCourseIDs reports which of courseIDs the user has purchased.
func (r *Repository) PurchasedCourseIDs(ctx context.Context, userID string, courseIDs []string) (map[string]bool, error) {
	purchased := make(map[string]bool)
	if len(courseIDs) == 0 {
		return purchased, nil
	}

	var ids []string
	err := r.conn(ctx).Model(&models.Purchase{}).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		purchased[id] = true
	}
	return purchased, nil
}

// CreatePurchase is idempotent on (user_id, course_id); created is false when the row existed.
func (r *Repository) CreatePurchase(ctx context.Context, purchase *models.Purchase) (created bool, err error) {
	res := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(purchase)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) CountCoursePurchases(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&models.Purchase{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}
