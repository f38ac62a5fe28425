package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pushp314/coursehub-backend/internal/database"
	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/logger"
	"github.com/pushp314/coursehub-backend/pkg/utils"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	categoriesCacheKey = "categories:all"
	categoriesCacheTTL = 10 * time.Minute

	// progressWorkers bounds the concurrent progress lookups of one listing.
	progressWorkers = 8
)

// CatalogStore is the read side of the published catalog.
type CatalogStore interface {
	ListPublishedCourses(ctx context.Context, filter repository.CourseFilter) ([]models.Course, error)
	PurchasedCourseIDs(ctx context.Context, userID string, courseIDs []string) (map[string]bool, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

// CourseFilter selects courses for the browse page.
type CourseFilter struct {
	UserID     string
	Title      *string
	CategoryID *string
}

// CourseSummary is a published course as seen by one user. Progress is nil unless the
// user purchased the course.
type CourseSummary struct {
	models.Course
	ChapterIDs []string `json:"chapterIds"`
	Progress   *float64 `json:"progress"`
}

type Catalog struct {
	store    CatalogStore
	progress *ProgressCalculator
	cache    *database.Cache
}

func NewCatalog(store CatalogStore, progress *ProgressCalculator, cache *database.Cache) *Catalog {
	return &Catalog{store: store, progress: progress, cache: cache}
}

// ListCourses returns published courses matching filter, newest first.
func (c *Catalog) ListCourses(ctx context.Context, filter CourseFilter) ([]CourseSummary, error) {
	if filter.Title != nil && utils.SearchQueryTooLong(*filter.Title) {
		return nil, apperrors.ValidationFailed("Search term is too long", "title")
	}

	courses, err := c.store.ListPublishedCourses(ctx, repository.CourseFilter{
		Title:      filter.Title,
		CategoryID: filter.CategoryID,
	})
	if err != nil {
		return nil, apperrors.Unavailable("Failed to list courses", err)
	}
	if len(courses) == 0 {
		return []CourseSummary{}, nil
	}

	ids := make([]string, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
	}
	purchased, err := c.store.PurchasedCourseIDs(ctx, filter.UserID, ids)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to list courses", err)
	}

	summaries := make([]CourseSummary, len(courses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(progressWorkers)

	for i := range courses {
		course := courses[i]
		chapterIDs := make([]string, 0, len(course.Chapters))
		for _, ch := range course.Chapters {
			chapterIDs = append(chapterIDs, ch.ID)
		}
		course.Chapters = nil
		summaries[i] = CourseSummary{Course: course, ChapterIDs: chapterIDs}

		if !purchased[course.ID] {
			continue
		}
		g.Go(func() error {
			progress := c.progress.ComputeProgress(gctx, filter.UserID, course.ID)
			summaries[i].Progress = &progress
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// ListCategories serves the category list from cache, falling back to the database.
func (c *Catalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := c.cache.Get(ctx, categoriesCacheKey, &categories)
	if err == nil {
		return categories, nil
	}
	if !errors.Is(err, database.ErrCacheMiss) {
		logger.Warn().Err(err).Msg("Category cache read failed")
	}

	categories, err = c.store.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to list categories", err)
	}
	if err := c.cache.Set(ctx, categoriesCacheKey, categories, categoriesCacheTTL); err != nil {
		logger.Warn().Err(err).Msg("Category cache write failed")
	}
	return categories, nil
}

func (c *Catalog) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ValidationFailed("Missing required fields", "name")
	}

	category := &models.Category{ID: utils.GenerateID(), Name: name}
	if err := c.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("Category already exists")
		}
		return nil, apperrors.Unavailable("Failed to create category", err)
	}

	if err := c.cache.Invalidate(ctx, categoriesCacheKey); err != nil {
		logger.Warn().Err(err).Msg("Category cache invalidation failed")
	}
	return category, nil
}
