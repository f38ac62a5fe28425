package repository

import (
	"context"
	"time"

	"github.com/pushp314/coursehub-backend/internal/models"
	"gorm.io/gorm/clause"
)

// GetSetting returns "" when the key was never set.
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var setting models.SystemSettings
	res := r.conn(ctx).Where("key = ?", key).Limit(1).Find(&setting)
	if res.Error != nil {
		return "", res.Error
	}
	return setting.Value, nil
}

func (r *Repository) ListSettings(ctx context.Context) ([]models.SystemSettings, error) {
	var settings []models.SystemSettings
	err := r.conn(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *Repository) SetSetting(ctx context.Context, key, value, adminID string) error {
	setting := models.SystemSettings{Key: key, Value: value, UpdatedBy: adminID, UpdatedAt: time.Now()}
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(&setting).Error
}
