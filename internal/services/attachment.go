package services

import (
	"context"
	"path"
	"strings"

	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/utils"
)

type AttachmentInput struct {
	Name        string `json:"name"`
	URL         string `json:"url" binding:"required"`
	URLPublicID string `json:"urlPublicId"`
}

// AddAttachment stores a downloadable resource. Without a name the last URL segment is used.
func (a *Authoring) AddAttachment(ctx context.Context, userID, courseID string, in AttachmentInput) (*models.Attachment, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return nil, apperrors.ValidationFailed("Missing required fields", "url")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = path.Base(url)
	}

	if _, err := a.repo.FindOwnedCourse(ctx, userID, courseID); err != nil {
		return nil, storeError(err, "Course not found")
	}
	publicID := strings.TrimSpace(in.URLPublicID)
	if err := requireUpload(ctx, a.repo, userID, publicID, "urlPublicId"); err != nil {
		return nil, storeError(err, "Course not found")
	}

	attachment := &models.Attachment{
		ID:          utils.GenerateID(),
		CourseID:    courseID,
		Name:        utils.TruncateString(name, 255),
		URL:         url,
		URLPublicID: publicID,
	}
	if err := a.repo.CreateAttachment(ctx, attachment); err != nil {
		return nil, apperrors.Unavailable("Failed to create attachment", err)
	}
	return attachment, nil
}

func (a *Authoring) DeleteAttachment(ctx context.Context, userID, courseID, attachmentID string) error {
	var attachment *models.Attachment
	err := a.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.LockOwnedCourse(ctx, userID, courseID); err != nil {
			return err
		}
		var err error
		attachment, err = tx.FindAttachment(ctx, courseID, attachmentID)
		if err != nil {
			if err == repository.ErrNotFound {
				return apperrors.NotFound("Attachment not found")
			}
			return err
		}
		return tx.DeleteAttachment(ctx, courseID, attachmentID)
	})
	if err != nil {
		return storeError(err, "Course not found")
	}

	removeMedia(ctx, a.repo, a.media, userID, attachment.URLPublicID)
	return nil
}
