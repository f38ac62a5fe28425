package services

import (
	"context"
	"strings"

	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/internal/storage"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/utils"
)

// Authoring covers the instructor side: courses, chapters and attachments.
type Authoring struct {
	repo  *repository.Repository
	media storage.MediaStore
}

func NewAuthoring(repo *repository.Repository, media storage.MediaStore) *Authoring {
	return &Authoring{repo: repo, media: media}
}

// CourseDetail is an owned course with its publication checklist.
type CourseDetail struct {
	*models.Course
	CompletedFields int `json:"completedFields"`
	TotalFields     int `json:"totalFields"`
}

// CourseUpdate is a partial course edit. Nil fields are left unchanged.
type CourseUpdate struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	ImageURL      *string  `json:"imageUrl"`
	ImagePublicID *string  `json:"imagePublicId"`
	Price         *float64 `json:"price"`
	CategoryID    *string  `json:"categoryId"`
}

func (a *Authoring) CreateCourse(ctx context.Context, userID, title string) (*models.Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.ValidationFailed("Missing required fields", FieldTitle)
	}

	course := &models.Course{ID: utils.GenerateID(), UserID: userID, Title: title}
	if err := a.repo.CreateCourse(ctx, course); err != nil {
		return nil, apperrors.Unavailable("Failed to create course", err)
	}
	return course, nil
}

func (a *Authoring) GetOwnedCourse(ctx context.Context, userID, courseID string) (*CourseDetail, error) {
	course, err := a.repo.GetCourseDetail(ctx, userID, courseID)
	if err != nil {
		return nil, storeError(err, "Course not found")
	}

	hasPublished := false
	for _, ch := range course.Chapters {
		if ch.IsPublished {
			hasPublished = true
			break
		}
	}
	completed, total := CourseCompletion(CourseFieldsOf(course), hasPublished)
	return &CourseDetail{Course: course, CompletedFields: completed, TotalFields: total}, nil
}

func (a *Authoring) ListOwnedCourses(ctx context.Context, userID string) ([]models.Course, error) {
	courses, err := a.repo.ListOwnedCourses(ctx, userID)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to list courses", err)
	}
	return courses, nil
}

// UpdateCourse applies a partial edit. A published course must stay publishable, so
// clearing one of its required fields is rejected.
func (a *Authoring) UpdateCourse(ctx context.Context, userID, courseID string, in CourseUpdate) (*models.Course, error) {
	if in.Title != nil && blank(*in.Title) {
		return nil, apperrors.ValidationFailed("Invalid fields", FieldTitle)
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, apperrors.ValidationFailed("Invalid fields", FieldPrice)
	}

	var (
		course   *models.Course
		oldImage string
	)
	err := a.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		course, err = tx.LockOwnedCourse(ctx, userID, courseID)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if in.Title != nil {
			course.Title = strings.TrimSpace(*in.Title)
			changes["title"] = course.Title
		}
		if in.Description != nil {
			course.Description = *in.Description
			changes["description"] = course.Description
		}
		if in.ImageURL != nil {
			if course.ImagePublicID != "" && *in.ImageURL != course.ImageURL {
				oldImage = course.ImagePublicID
			}
			previous := course.ImagePublicID
			course.ImageURL = *in.ImageURL
			course.ImagePublicID = ""
			if in.ImagePublicID != nil {
				course.ImagePublicID = *in.ImagePublicID
			}
			if course.ImagePublicID != previous {
				if err := requireUpload(ctx, tx, userID, course.ImagePublicID, "imagePublicId"); err != nil {
					return err
				}
			}
			changes["image_url"] = course.ImageURL
			changes["image_public_id"] = course.ImagePublicID
		}
		if in.Price != nil {
			price := *in.Price
			course.Price = &price
			changes["price"] = price
		}
		if in.CategoryID != nil {
			categoryID := strings.TrimSpace(*in.CategoryID)
			if categoryID == "" {
				course.CategoryID = nil
				changes["category_id"] = nil
			} else {
				exists, err := tx.CategoryExists(ctx, categoryID)
				if err != nil {
					return err
				}
				if !exists {
					return apperrors.ValidationFailed("Invalid fields", FieldCategoryID)
				}
				course.CategoryID = &categoryID
				changes["category_id"] = categoryID
			}
		}

		if course.IsPublished {
			// the published chapter requirement is unaffected by a course edit
			if missing := MissingCourseFields(CourseFieldsOf(course), true); len(missing) > 0 {
				return apperrors.ValidationFailed("Published course requires fields", missing...)
			}
		}
		return tx.UpdateCourse(ctx, courseID, changes)
	})
	if err != nil {
		return nil, storeError(err, "Course not found")
	}

	if oldImage != "" && oldImage != course.ImagePublicID {
		removeMedia(ctx, a.repo, a.media, userID, oldImage)
	}
	return course, nil
}

// DeleteCourse removes a course that nobody has bought, along with its chapters,
// attachments and their hosted media.
func (a *Authoring) DeleteCourse(ctx context.Context, userID, courseID string) error {
	var media []string
	err := a.repo.Transaction(ctx, func(tx *repository.Repository) error {
		course, err := tx.LockOwnedCourse(ctx, userID, courseID)
		if err != nil {
			return err
		}

		purchases, err := tx.CountCoursePurchases(ctx, courseID)
		if err != nil {
			return err
		}
		if purchases > 0 {
			return apperrors.Conflict("Course has purchases and cannot be deleted")
		}

		chapters, err := tx.ListChapters(ctx, courseID)
		if err != nil {
			return err
		}
		attachments, err := tx.ListAttachments(ctx, courseID)
		if err != nil {
			return err
		}

		media = append(media, course.ImagePublicID)
		for _, ch := range chapters {
			media = append(media, ch.VideoPublicID)
		}
		for _, at := range attachments {
			media = append(media, at.URLPublicID)
		}
		return tx.DeleteCourseTree(ctx, courseID)
	})
	if err != nil {
		return storeError(err, "Course not found")
	}

	removeMedia(ctx, a.repo, a.media, userID, media...)
	return nil
}
