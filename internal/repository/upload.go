package repository

import (
	"context"

	"github.com/pushp314/coursehub-backend/internal/models"
)

func (r *Repository) CreateUpload(ctx context.Context, upload *models.Upload) error {
	return r.conn(ctx).Create(upload).Error
}

// UploadedBy reports whether userID stored the object under key.
func (r *Repository) UploadedBy(ctx context.Context, userID, key string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&models.Upload{}).
		Where("object_key = ? AND user_id = ?", key, userID).
		Count(&count).Error
	return count > 0, err
}

// ReleasableUploads filters keys down to objects userID uploaded that no course, chapter
// or attachment references anymore.
func (r *Repository) ReleasableUploads(ctx context.Context, userID string, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	db := r.conn(ctx)

	var releasable []string
	err := db.Model(&models.Upload{}).
		Where("user_id = ? AND object_key IN ?", userID, keys).
		Where("object_key NOT IN (?)", db.Model(&models.Course{}).Select("image_public_id").Where("image_public_id <> ''")).
		Where("object_key NOT IN (?)", db.Model(&models.Chapter{}).Select("video_public_id").Where("video_public_id <> ''")).
		Where("object_key NOT IN (?)", db.Model(&models.Attachment{}).Select("url_public_id").Where("url_public_id <> ''")).
		Pluck("object_key", &releasable).Error
	return releasable, err
}

func (r *Repository) DeleteUpload(ctx context.Context, key string) error {
	return r.conn(ctx).Where("object_key = ?", key).Delete(&models.Upload{}).Error
}
