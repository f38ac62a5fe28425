package repository

import (
	"context"

	"github.com/pushp314/coursehub-backend/internal/models"
)

func (r *Repository) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	return r.conn(ctx).Create(attachment).Error
}

func (r *Repository) FindAttachment(ctx context.Context, courseID, id string) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.conn(ctx).Where("id = ? AND course_id = ?", id, courseID).First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *Repository) ListAttachments(ctx context.Context, courseID string) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.conn(ctx).Where("course_id = ?", courseID).Order("created_at DESC").Find(&attachments).Error
	return attachments, err
}

func (r *Repository) DeleteAttachment(ctx context.Context, courseID, id string) error {
	return r.conn(ctx).Where("id = ? AND course_id = ?", id, courseID).Delete(&models.Attachment{}).Error
}
