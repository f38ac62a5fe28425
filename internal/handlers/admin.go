package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/models"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/logger"
)

// AdminGetSystemSettings returns every known switch, unset ones as "".
func (h *Handler) AdminGetSystemSettings(c *gin.Context) {
	settings, err := h.repo.ListSettings(c.Request.Context())
	if err != nil {
		_ = c.Error(apperrors.Unavailable("Failed to load settings", err))
		return
	}

	settingsMap := make(map[string]string, len(models.KnownSettings))
	for _, key := range models.KnownSettings {
		settingsMap[key] = ""
	}
	for _, s := range settings {
		settingsMap[s.Key] = s.Value
	}

	c.JSON(http.StatusOK, gin.H{"settings": settingsMap})
}

type UpdateSettingInput struct {
	Value string `json:"value" binding:"required,oneof=true false"`
}

// AdminUpdateSystemSetting sets one switch to "true" or "false".
func (h *Handler) AdminUpdateSystemSetting(c *gin.Context) {
	key := c.Param("key")
	if !models.IsKnownSetting(key) {
		_ = c.Error(apperrors.BadRequest("Invalid setting key"))
		return
	}

	var input UpdateSettingInput
	if !bindJSON(c, &input) {
		return
	}

	adminID := userID(c)
	if err := h.repo.SetSetting(c.Request.Context(), key, input.Value, adminID); err != nil {
		_ = c.Error(apperrors.Unavailable("Failed to update setting", err))
		return
	}

	logger.Info().Str("admin_id", adminID).Str("key", key).Str("value", input.Value).Msg("System setting changed")
	c.JSON(http.StatusOK, gin.H{"message": "Setting updated", "key": key, "value": input.Value})
}

// PublicGetSystemStatus lets the frontend render maintenance and closed-registration notices.
func (h *Handler) PublicGetSystemStatus(c *gin.Context) {
	settings, err := h.repo.ListSettings(c.Request.Context())
	if err != nil {
		_ = c.Error(apperrors.Unavailable("Failed to load settings", err))
		return
	}

	settingsMap := make(map[string]string, len(settings))
	for _, s := range settings {
		settingsMap[s.Key] = s.Value
	}
	c.JSON(http.StatusOK, gin.H{"settings": settingsMap})
}
