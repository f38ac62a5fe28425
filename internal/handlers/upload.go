package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/storage"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/logger"
)

// Upload size caps per folder.
var maxUploadSize = map[string]int64{
	storage.FolderCourseImage:       4 << 20,
	storage.FolderCourseAttachments: 16 << 20,
	storage.FolderCourseVideo:       512 << 20,
}

// UploadFile stores a multipart "file" in the folder named by ?folder= and returns its
// public URL and storage key. The key is recorded against the uploader, who alone may
// attach it to a course.
func (h *Handler) UploadFile(c *gin.Context) {
	folder := c.Query("folder")
	if !storage.ValidFolder(folder) {
		_ = c.Error(apperrors.ValidationFailed("Invalid upload folder", "folder"))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize[folder]+(1<<20))
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		_ = c.Error(apperrors.BadRequest("No valid file field found"))
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize[folder] {
		_ = c.Error(apperrors.BadRequest("File too large"))
		return
	}

	object, err := h.media.Upload(c.Request.Context(), folder, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			_ = c.Error(apperrors.Unavailable("Media storage not configured", err))
			return
		}
		log := logger.Component("media")
		log.Error().Err(err).Str("folder", folder).Msg("Upload failed")
		_ = c.Error(apperrors.Unavailable("Upload failed", err))
		return
	}

	uploaderID := userID(c)
	upload := &models.Upload{Key: object.Key, UserID: uploaderID, URL: object.URL}
	if err := h.repo.CreateUpload(c.Request.Context(), upload); err != nil {
		// an unrecorded object could never be referenced, so do not keep it
		if delErr := h.media.Delete(context.WithoutCancel(c.Request.Context()), object.Key); delErr != nil {
			log := logger.Component("media")
			log.Warn().Err(delErr).Str("key", object.Key).Msg("Failed to delete unrecorded upload")
		}
		_ = c.Error(apperrors.Unavailable("Failed to record upload", err))
		return
	}

	logger.Info().Str("key", object.Key).Str("user_id", uploaderID).Int64("size", object.Size).Msg("File uploaded")
	c.JSON(http.StatusOK, object)
}
