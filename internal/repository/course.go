package repository

import (
	"context"

	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/pkg/utils"
	"gorm.io/gorm"
)

// CourseFilter narrows the published catalog. Nil fields do not filter.
type CourseFilter struct {
	Title      *string
	CategoryID *string
}

func (r *Repository) CreateCourse(ctx context.Context, course *models.Course) error {
	return r.conn(ctx).Create(course).Error
}

func (r *Repository) FindCourse(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.conn(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindOwnedCourse matches only when userID owns the course.
func (r *Repository) FindOwnedCourse(ctx context.Context, userID, id string) (*models.Course, error) {
	var course models.Course
	if err := r.conn(ctx).Where("id = ? AND user_id = ?", id, userID).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// LockOwnedCourse is FindOwnedCourse holding a row lock for the rest of the transaction.
func (r *Repository) LockOwnedCourse(ctx context.Context, userID, id string) (*models.Course, error) {
	var course models.Course
	if err := forUpdate(r.conn(ctx)).Where("id = ? AND user_id = ?", id, userID).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// LockCourse takes a row lock on the course regardless of owner.
func (r *Repository) LockCourse(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := forUpdate(r.conn(ctx)).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// GetCourseDetail loads the course with its category, chapters by position and attachments.
func (r *Repository) GetCourseDetail(ctx context.Context, userID, id string) (*models.Course, error) {
	var course models.Course
	err := r.conn(ctx).
		Preload("Category").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *Repository) ListOwnedCourses(ctx context.Context, userID string) ([]models.Course, error) {
	var courses []models.Course
	err := r.conn(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&courses).Error
	return courses, err
}

// ListPublishedCourses returns published courses newest first with their category and
// the ids of their published chapters.
func (r *Repository) ListPublishedCourses(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	query := r.conn(ctx).Model(&models.Course{}).Where("is_published = ?", true)

	if filter.Title != nil && *filter.Title != "" {
		query = query.Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, utils.SanitizeSearchQuery(*filter.Title))
	}
	if filter.CategoryID != nil && *filter.CategoryID != "" {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	var courses []models.Course
	err := query.
		Preload("Category").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "course_id", "position").
				Where("is_published = ?", true).
				Order("position ASC, id ASC")
		}).
		Order("created_at DESC, id DESC").
		Find(&courses).Error
	return courses, err
}

// UpdateCourse applies the column changes to one course.
func (r *Repository) UpdateCourse(ctx context.Context, id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return r.conn(ctx).Model(&models.Course{}).Where("id = ?", id).Updates(changes).Error
}

func (r *Repository) SetCoursePublished(ctx context.Context, id string, published bool) error {
	return r.conn(ctx).Model(&models.Course{}).Where("id = ?", id).Update("is_published", published).Error
}

// DeleteCourseTree removes a course with its chapters, their progress rows and its attachments.
// Call it inside a transaction.
func (r *Repository) DeleteCourseTree(ctx context.Context, id string) error {
	db := r.conn(ctx)

	chapterIDs := db.Model(&models.Chapter{}).Select("id").Where("course_id = ?", id)
	if err := db.Where("chapter_id IN (?)", chapterIDs).Delete(&models.UserProgress{}).Error; err != nil {
		return err
	}
	if err := db.Where("course_id = ?", id).Delete(&models.Chapter{}).Error; err != nil {
		return err
	}
	if err := db.Where("course_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Course{}).Error
}
