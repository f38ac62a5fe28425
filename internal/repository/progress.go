package repository

import (
	"context"
	"time"

	"github.com/pushp314/coursehub-backend/internal/models"
	"gorm.io/gorm/clause"
)

// CountCompleted counts the user's completed chapters among chapterIDs.
func (r *Repository) CountCompleted(ctx context.Context, userID string, chapterIDs []string) (int64, error) {
	if len(chapterIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.conn(ctx).Model(&models.UserProgress{}).
		Where("user_id = ? AND chapter_id IN ? AND is_completed = ?", userID, chapterIDs, true).
		Count(&count).Error
	return count, err
}

// CompletedChapterIDs reports which of chapterIDs the user has completed.
func (r *Repository) CompletedChapterIDs(ctx context.Context, userID string, chapterIDs []string) (map[string]bool, error) {
	completed := make(map[string]bool)
	if len(chapterIDs) == 0 {
		return completed, nil
	}

	var ids []string
	err := r.conn(ctx).Model(&models.UserProgress{}).
		Where("user_id = ? AND chapter_id IN ? AND is_completed = ?", userID, chapterIDs, true).
		Pluck("chapter_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		completed[id] = true
	}
	return completed, nil
}

// FindProgress returns nil without error when no record exists.
func (r *Repository) FindProgress(ctx context.Context, userID, chapterID string) (*models.UserProgress, error) {
	var progress models.UserProgress
	res := r.conn(ctx).Where("user_id = ? AND chapter_id = ?", userID, chapterID).Limit(1).Find(&progress)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &progress, nil
}

// UpsertProgress keeps one row per (user_id, chapter_id).
func (r *Repository) UpsertProgress(ctx context.Context, progress *models.UserProgress) error {
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_completed": progress.IsCompleted,
			"updated_at":   time.Now(),
		}),
	}).Create(progress).Error
}
