package services

import (
	"context"
	"strings"

	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/utils"
)

// ChapterUpdate is a partial chapter edit. Nil fields are left unchanged.
type ChapterUpdate struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	VideoURL      *string `json:"videoUrl"`
	VideoPublicID *string `json:"videoPublicId"`
	IsFree        *bool   `json:"isFree"`
}

// ChapterPosition moves one chapter to a zero-based index in the course order.
type ChapterPosition struct {
	ID       string `json:"id" binding:"required"`
	Position int    `json:"position"`
}

// CreateChapter appends a chapter after the current last one.
func (a *Authoring) CreateChapter(ctx context.Context, userID, courseID, title string) (*models.Chapter, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.ValidationFailed("Missing required fields", FieldTitle)
	}

	var chapter *models.Chapter
	err := a.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.LockOwnedCourse(ctx, userID, courseID); err != nil {
			return err
		}

		last, ok, err := tx.MaxChapterPosition(ctx, courseID)
		if err != nil {
			return err
		}
		position := 0
		if ok {
			position = last + 1
		}

		chapter = &models.Chapter{
			ID:       utils.GenerateID(),
			CourseID: courseID,
			Title:    title,
			Position: position,
		}
		return tx.CreateChapter(ctx, chapter)
	})
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	return chapter, nil
}

func (a *Authoring) GetOwnedChapter(ctx context.Context, userID, courseID, chapterID string) (*models.Chapter, error) {
	if _, err := a.repo.FindOwnedCourse(ctx, userID, courseID); err != nil {
		return nil, storeError(err, "Course not found")
	}
	chapter, err := a.repo.FindChapter(ctx, courseID, chapterID)
	if err != nil {
		return nil, storeError(err, "Chapter not found")
	}
	return chapter, nil
}

// UpdateChapter applies a partial edit. Replacing the video deletes the previous upload.
func (a *Authoring) UpdateChapter(ctx context.Context, userID, courseID, chapterID string, in ChapterUpdate) (*models.Chapter, error) {
	if in.Title != nil && blank(*in.Title) {
		return nil, apperrors.ValidationFailed("Invalid fields", FieldTitle)
	}

	var (
		chapter  *models.Chapter
		oldVideo string
	)
	err := a.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.LockOwnedCourse(ctx, userID, courseID); err != nil {
			return err
		}

		var err error
		chapter, err = tx.FindChapter(ctx, courseID, chapterID)
		if err != nil {
			return chapterNotFound(err)
		}

		changes := map[string]interface{}{}
		if in.Title != nil {
			chapter.Title = strings.TrimSpace(*in.Title)
			changes["title"] = chapter.Title
		}
		if in.Description != nil {
			chapter.Description = *in.Description
			changes["description"] = chapter.Description
		}
		if in.VideoURL != nil {
			if chapter.VideoPublicID != "" && *in.VideoURL != chapter.VideoURL {
				oldVideo = chapter.VideoPublicID
			}
			previous := chapter.VideoPublicID
			chapter.VideoURL = *in.VideoURL
			chapter.VideoPublicID = ""
			if in.VideoPublicID != nil {
				chapter.VideoPublicID = *in.VideoPublicID
			}
			if chapter.VideoPublicID != previous {
				if err := requireUpload(ctx, tx, userID, chapter.VideoPublicID, "videoPublicId"); err != nil {
					return err
				}
			}
			changes["video_url"] = chapter.VideoURL
			changes["video_public_id"] = chapter.VideoPublicID
		}
		if in.IsFree != nil {
			chapter.IsFree = *in.IsFree
			changes["is_free"] = chapter.IsFree
		}

		if chapter.IsPublished {
			if missing := MissingChapterFields(ChapterFieldsOf(chapter)); len(missing) > 0 {
				return apperrors.ValidationFailed("Published chapter requires fields", missing...)
			}
		}
		return tx.UpdateChapter(ctx, chapterID, changes)
	})
	if err != nil {
		return nil, storeError(err, "Course not found")
	}

	if oldVideo != "" && oldVideo != chapter.VideoPublicID {
		removeMedia(ctx, a.repo, a.media, userID, oldVideo)
	}
	return chapter, nil
}

// ReorderChapters applies a drag-and-drop move and renumbers every chapter of the
// course to 0..n-1 in one transaction.
func (a *Authoring) ReorderChapters(ctx context.Context, userID, courseID string, moves []ChapterPosition) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := a.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.LockOwnedCourse(ctx, userID, courseID); err != nil {
			return err
		}

		var err error
		chapters, err = tx.ListChapters(ctx, courseID)
		if err != nil {
			return err
		}

		order, err := ArrangeChapters(chapters, moves)
		if err != nil {
			return err
		}

		byID := make(map[string]models.Chapter, len(chapters))
		for _, ch := range chapters {
			byID[ch.ID] = ch
		}
		arranged := make([]models.Chapter, len(order))
		for i, id := range order {
			ch := byID[id]
			if ch.Position != i {
				if err := tx.SetChapterPosition(ctx, id, i); err != nil {
					return err
				}
				ch.Position = i
			}
			arranged[i] = ch
		}
		chapters = arranged
		return nil
	})
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	return chapters, nil
}

// ArrangeChapters computes the new chapter order. current is the course's chapters in
// their present order. Each move pins a chapter to its index; the remaining chapters
// fill the free slots keeping their relative order. The result lists every chapter id
// once, so index = new position.
func ArrangeChapters(current []models.Chapter, moves []ChapterPosition) ([]string, error) {
	if len(moves) == 0 {
		return nil, apperrors.ValidationFailed("Invalid fields", "list")
	}

	n := len(current)
	known := make(map[string]bool, n)
	for _, ch := range current {
		known[ch.ID] = true
	}

	slots := make([]string, n)
	moved := make(map[string]bool, len(moves))
	for _, m := range moves {
		switch {
		case !known[m.ID]:
			return nil, apperrors.ValidationFailed("Unknown chapter in list", m.ID)
		case moved[m.ID]:
			return nil, apperrors.ValidationFailed("Duplicate chapter in list", m.ID)
		case m.Position < 0 || m.Position >= n:
			return nil, apperrors.ValidationFailed("Position out of range", m.ID)
		case slots[m.Position] != "":
			return nil, apperrors.ValidationFailed("Duplicate position in list", m.ID)
		}
		slots[m.Position] = m.ID
		moved[m.ID] = true
	}

	next := 0
	for _, ch := range current {
		if moved[ch.ID] {
			continue
		}
		for slots[next] != "" {
			next++
		}
		slots[next] = ch.ID
	}
	return slots, nil
}
