package services

import (
	"context"
	"errors"

	"github.com/pushp314/coursehub-backend/internal/database"
	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/internal/storage"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/logger"
)

// Services bundles the domain services handed to the HTTP layer.
type Services struct {
	Progress  *ProgressCalculator
	Publisher *Publisher
	Catalog   *Catalog
	Authoring *Authoring
	Learning  *Learning
	Checkout  *Checkout
}

// New wires every service around one repository. gateway may be nil when payments are
// not configured.
func New(repo *repository.Repository, cache *database.Cache, media storage.MediaStore, gateway PaymentGateway, currency string) *Services {
	if media == nil {
		media = storage.NoopStore{}
	}
	progress := NewProgressCalculator(repo)
	return &Services{
		Progress:  progress,
		Publisher: NewPublisher(repo, media),
		Catalog:   NewCatalog(repo, progress, cache),
		Authoring: NewAuthoring(repo, media),
		Learning:  NewLearning(repo, progress),
		Checkout:  NewCheckout(repo, gateway, currency),
	}
}

// storeError maps repository failures onto the API error model. AppErrors raised inside
// a transaction pass through unchanged.
func storeError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(notFoundMsg)
	}
	return apperrors.Unavailable("Repository unavailable", err)
}

// requireUpload rejects a media key that userID did not upload. An empty key clears
// the media and is always accepted.
func requireUpload(ctx context.Context, repo *repository.Repository, userID, key, field string) error {
	if key == "" {
		return nil
	}
	owned, err := repo.UploadedBy(ctx, userID, key)
	if err != nil {
		return err
	}
	if !owned {
		return apperrors.ValidationFailed("Unknown media key", field)
	}
	return nil
}

// removeMedia deletes hosted objects once the database change is committed. Only
// objects userID uploaded that nothing references anymore are removed. Failures leave an
// orphaned object behind and are only logged.
func removeMedia(ctx context.Context, repo *repository.Repository, media storage.MediaStore, userID string, keys ...string) {
	ctx = context.WithoutCancel(ctx)
	log := logger.Component("media")

	candidates := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			candidates = append(candidates, key)
		}
	}
	if len(candidates) == 0 {
		return
	}

	releasable, err := repo.ReleasableUploads(ctx, userID, candidates)
	if err != nil {
		log.Warn().Err(err).Strs("keys", candidates).Msg("Failed to resolve media ownership")
		return
	}
	if len(releasable) < len(candidates) {
		log.Warn().Str("user_id", userID).Strs("keys", candidates).Strs("releasable", releasable).
			Msg("Skipping media not owned by the user or still referenced")
	}

	for _, key := range releasable {
		if err := media.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to delete media object")
			continue
		}
		if err := repo.DeleteUpload(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to forget deleted upload")
		}
	}
}

// recordPurchase inserts the purchase under the course row lock so a concurrent
// DeleteCourse either counts it or removes the course first.
func recordPurchase(ctx context.Context, repo *repository.Repository, purchase *models.Purchase) (bool, error) {
	var created bool
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.LockCourse(ctx, purchase.CourseID); err != nil {
			return err
		}
		var err error
		created, err = tx.CreatePurchase(ctx, purchase)
		return err
	})
	return created, err
}
