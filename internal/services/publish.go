package services

import (
	"context"
	"errors"
	"strings"

	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/internal/storage"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/logger"
)

// Names reported for missing publication requirements.
const (
	FieldTitle            = "title"
	FieldDescription      = "description"
	FieldImageURL         = "imageUrl"
	FieldPrice            = "price"
	FieldCategoryID       = "categoryId"
	FieldPublishedChapter = "publishedChapter"
	FieldVideoURL         = "videoUrl"
)

// CourseFields are the course attributes a published course must carry.
type CourseFields struct {
	Title       string
	Description string
	ImageURL    string
	Price       *float64
	CategoryID  *string
}

func CourseFieldsOf(c *models.Course) CourseFields {
	return CourseFields{
		Title:       c.Title,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Price:       c.Price,
		CategoryID:  c.CategoryID,
	}
}

// ChapterFields are the chapter attributes a published chapter must carry.
type ChapterFields struct {
	Title       string
	Description string
	VideoURL    string
}

func ChapterFieldsOf(c *models.Chapter) ChapterFields {
	return ChapterFields{Title: c.Title, Description: c.Description, VideoURL: c.VideoURL}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// MissingCourseFields lists the unmet publication requirements of a course in a fixed order.
// A price of 0 is present: it marks a free course.
func MissingCourseFields(f CourseFields, hasPublishedChapter bool) []string {
	var missing []string
	if blank(f.Title) {
		missing = append(missing, FieldTitle)
	}
	if blank(f.Description) {
		missing = append(missing, FieldDescription)
	}
	if blank(f.ImageURL) {
		missing = append(missing, FieldImageURL)
	}
	if f.Price == nil {
		missing = append(missing, FieldPrice)
	}
	if f.CategoryID == nil || blank(*f.CategoryID) {
		missing = append(missing, FieldCategoryID)
	}
	if !hasPublishedChapter {
		missing = append(missing, FieldPublishedChapter)
	}
	return missing
}

func MissingChapterFields(f ChapterFields) []string {
	var missing []string
	if blank(f.Title) {
		missing = append(missing, FieldTitle)
	}
	if blank(f.Description) {
		missing = append(missing, FieldDescription)
	}
	if blank(f.VideoURL) {
		missing = append(missing, FieldVideoURL)
	}
	return missing
}

func CanPublishCourse(f CourseFields, hasPublishedChapter bool) bool {
	return len(MissingCourseFields(f, hasPublishedChapter)) == 0
}

func CanPublishChapter(f ChapterFields) bool {
	return len(MissingChapterFields(f)) == 0
}

// courseRequirements is the number of checks MissingCourseFields performs.
const courseRequirements = 6

// CourseCompletion counts the satisfied publication requirements, as shown in the
// authoring UI ("Complete all fields (4/6)").
func CourseCompletion(f CourseFields, hasPublishedChapter bool) (completed, total int) {
	return courseRequirements - len(MissingCourseFields(f, hasPublishedChapter)), courseRequirements
}

// Publisher toggles publication state while keeping the course and chapter invariants:
// a published course always has at least one published chapter.
type Publisher struct {
	repo  *repository.Repository
	media storage.MediaStore
}

func NewPublisher(repo *repository.Repository, media storage.MediaStore) *Publisher {
	return &Publisher{repo: repo, media: media}
}

func (p *Publisher) PublishCourse(ctx context.Context, userID, courseID string) (*models.Course, error) {
	var course *models.Course
	err := p.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		course, err = tx.LockOwnedCourse(ctx, userID, courseID)
		if err != nil {
			return err
		}

		published, err := tx.CountPublishedChapters(ctx, courseID)
		if err != nil {
			return err
		}
		if missing := MissingCourseFields(CourseFieldsOf(course), published > 0); len(missing) > 0 {
			return apperrors.ValidationFailed("Missing required fields", missing...)
		}

		course.IsPublished = true
		return tx.SetCoursePublished(ctx, courseID, true)
	})
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	return course, nil
}

func (p *Publisher) UnpublishCourse(ctx context.Context, userID, courseID string) (*models.Course, error) {
	var course *models.Course
	err := p.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		course, err = tx.LockOwnedCourse(ctx, userID, courseID)
		if err != nil {
			return err
		}
		course.IsPublished = false
		return tx.SetCoursePublished(ctx, courseID, false)
	})
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	return course, nil
}

func (p *Publisher) PublishChapter(ctx context.Context, userID, courseID, chapterID string) (*models.Chapter, error) {
	var chapter *models.Chapter
	err := p.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.LockOwnedCourse(ctx, userID, courseID); err != nil {
			return err
		}

		var err error
		chapter, err = tx.FindChapter(ctx, courseID, chapterID)
		if err != nil {
			return chapterNotFound(err)
		}
		if missing := MissingChapterFields(ChapterFieldsOf(chapter)); len(missing) > 0 {
			return apperrors.ValidationFailed("Missing required fields", missing...)
		}

		chapter.IsPublished = true
		return tx.SetChapterPublished(ctx, courseID, chapterID, true)
	})
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	return chapter, nil
}

// UnpublishChapter hides a chapter and unpublishes the course when it was the last
// published one. It reports whether the course was unpublished.
func (p *Publisher) UnpublishChapter(ctx context.Context, userID, courseID, chapterID string) (bool, error) {
	var courseUnpublished bool
	err := p.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.LockOwnedCourse(ctx, userID, courseID); err != nil {
			return err
		}
		if _, err := tx.FindChapter(ctx, courseID, chapterID); err != nil {
			return chapterNotFound(err)
		}

		var err error
		courseUnpublished, err = ApplyChapterUnpublishCascade(ctx, tx, courseID, chapterID)
		return err
	})
	if err != nil {
		return false, storeError(err, "Course not found")
	}
	logCascade(courseID, chapterID, courseUnpublished)
	return courseUnpublished, nil
}

// DeleteChapter removes a chapter with its progress rows, applies the unpublish cascade
// and then deletes the hosted video.
func (p *Publisher) DeleteChapter(ctx context.Context, userID, courseID, chapterID string) (bool, error) {
	var (
		chapter           *models.Chapter
		courseUnpublished bool
	)
	err := p.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.LockOwnedCourse(ctx, userID, courseID); err != nil {
			return err
		}

		var err error
		chapter, err = tx.FindChapter(ctx, courseID, chapterID)
		if err != nil {
			return chapterNotFound(err)
		}

		courseUnpublished, err = ApplyChapterUnpublishCascade(ctx, tx, courseID, chapterID)
		if err != nil {
			return err
		}
		return tx.DeleteChapter(ctx, courseID, chapterID)
	})
	if err != nil {
		return false, storeError(err, "Course not found")
	}

	logCascade(courseID, chapterID, courseUnpublished)
	removeMedia(ctx, p.repo, p.media, userID, chapter.VideoPublicID)
	return courseUnpublished, nil
}

// ApplyChapterUnpublishCascade unpublishes the chapter and, when the course is left
// without published chapters, the course too. tx must be a transaction holding the
// course row lock so concurrent cascades on the same course serialize.
func ApplyChapterUnpublishCascade(ctx context.Context, tx *repository.Repository, courseID, chapterID string) (courseUnpublished bool, err error) {
	if err := tx.SetChapterPublished(ctx, courseID, chapterID, false); err != nil {
		return false, err
	}

	remaining, err := tx.CountPublishedChapters(ctx, courseID)
	if err != nil {
		return false, err
	}
	if remaining > 0 {
		return false, nil
	}

	if err := tx.SetCoursePublished(ctx, courseID, false); err != nil {
		return false, err
	}
	return true, nil
}

func logCascade(courseID, chapterID string, courseUnpublished bool) {
	if courseUnpublished {
		logger.Info().Str("course_id", courseID).Str("chapter_id", chapterID).
			Msg("Course unpublished: no published chapters left")
	}
}

func chapterNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Chapter not found")
	}
	return err
}
