package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/internal/database"
	"github.com/pushp314/coursehub-backend/internal/middleware"
	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/internal/services"
	"github.com/pushp314/coursehub-backend/internal/storage"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
)

// Handler holds the dependencies shared by every HTTP handler.
type Handler struct {
	svc   *services.Services
	repo  *repository.Repository
	cache *database.Cache
	media storage.MediaStore
	oauth *oauthProviders
	cfg   *config.Config
}

func New(cfg *config.Config, repo *repository.Repository, cache *database.Cache, media storage.MediaStore, svc *services.Services) *Handler {
	if media == nil {
		media = storage.NoopStore{}
	}
	return &Handler{
		svc:   svc,
		repo:  repo,
		cache: cache,
		media: media,
		oauth: newOAuthProviders(cfg),
		cfg:   cfg,
	}
}

// Repo exposes the repository to route-level middleware.
func (h *Handler) Repo() *repository.Repository {
	return h.repo
}

func (h *Handler) Cache() *database.Cache {
	return h.cache
}

func (h *Handler) Config() *config.Config {
	return h.cfg
}

func userID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

// bindJSON reports binding failures through the error middleware.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid request body: " + err.Error()))
		return false
	}
	return true
}
