package repository

import (
	"context"

	"github.com/pushp314/coursehub-backend/internal/models"
)

func (r *Repository) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	return r.conn(ctx).Create(chapter).Error
}

// MaxChapterPosition returns the highest position in the course, ok=false when it has no chapters.
func (r *Repository) MaxChapterPosition(ctx context.Context, courseID string) (max int, ok bool, err error) {
	var last models.Chapter
	res := r.conn(ctx).Where("course_id = ?", courseID).Order("position DESC").Limit(1).Find(&last)
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	return last.Position, true, nil
}

func (r *Repository) FindChapter(ctx context.Context, courseID, chapterID string) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.conn(ctx).Where("id = ? AND course_id = ?", chapterID, courseID).First(&chapter).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

// ListChapters returns every chapter of the course in display order.
func (r *Repository) ListChapters(ctx context.Context, courseID string) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.conn(ctx).Where("course_id = ?", courseID).Order("position ASC, id ASC").Find(&chapters).Error
	return chapters, err
}

func (r *Repository) ListPublishedChapters(ctx context.Context, courseID string) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.conn(ctx).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Order("position ASC, id ASC").
		Find(&chapters).Error
	return chapters, err
}

func (r *Repository) PublishedChapterIDs(ctx context.Context, courseID string) ([]string, error) {
	var ids []string
	err := r.conn(ctx).Model(&models.Chapter{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *Repository) CountPublishedChapters(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&models.Chapter{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&count).Error
	return count, err
}

// NextPublishedChapter returns the published chapter following position, or nil.
func (r *Repository) NextPublishedChapter(ctx context.Context, courseID string, position int) (*models.Chapter, error) {
	var next models.Chapter
	res := r.conn(ctx).
		Where("course_id = ? AND is_published = ? AND position > ?", courseID, true, position).
		Order("position ASC, id ASC").
		Limit(1).
		Find(&next)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &next, nil
}

func (r *Repository) UpdateChapter(ctx context.Context, chapterID string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return r.conn(ctx).Model(&models.Chapter{}).Where("id = ?", chapterID).Updates(changes).Error
}

func (r *Repository) SetChapterPublished(ctx context.Context, courseID, chapterID string, published bool) error {
	res := r.conn(ctx).Model(&models.Chapter{}).
		Where("id = ? AND course_id = ?", chapterID, courseID).
		Update("is_published", published)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetChapterPosition(ctx context.Context, chapterID string, position int) error {
	return r.conn(ctx).Model(&models.Chapter{}).Where("id = ?", chapterID).Update("position", position).Error
}

// DeleteChapter removes the chapter and the progress rows pointing at it.
func (r *Repository) DeleteChapter(ctx context.Context, courseID, chapterID string) error {
	db := r.conn(ctx)
	if err := db.Where("chapter_id = ?", chapterID).Delete(&models.UserProgress{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ? AND course_id = ?", chapterID, courseID).Delete(&models.Chapter{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
