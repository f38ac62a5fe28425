package services

import (
	"context"
	"errors"

	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/utils"
)

// Learning serves the student side of a course.
type Learning struct {
	repo     *repository.Repository
	progress *ProgressCalculator
}

func NewLearning(repo *repository.Repository, progress *ProgressCalculator) *Learning {
	return &Learning{repo: repo, progress: progress}
}

type OutlineChapter struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Position    int    `json:"position"`
	IsFree      bool   `json:"isFree"`
	IsCompleted bool   `json:"isCompleted"`
	IsLocked    bool   `json:"isLocked"`
}

// CourseOutline is the course sidebar: published chapters with the user's state.
type CourseOutline struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Price     *float64         `json:"price"`
	Chapters  []OutlineChapter `json:"chapters"`
	Purchased bool             `json:"purchased"`
	Progress  *float64         `json:"progress"`
}

// ChapterView is everything the chapter player needs. Video URLs are blanked on the
// chapter and the next chapter when the user may not watch them.
type ChapterView struct {
	Chapter      *models.Chapter      `json:"chapter"`
	CoursePrice  *float64             `json:"coursePrice"`
	Attachments  []models.Attachment  `json:"attachments"`
	NextChapter  *models.Chapter      `json:"nextChapter"`
	UserProgress *models.UserProgress `json:"userProgress"`
	Purchase     *models.Purchase     `json:"purchase"`
	IsLocked     bool                 `json:"isLocked"`
}

func (l *Learning) publishedCourse(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := l.repo.FindCourse(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	if !course.IsPublished {
		return nil, apperrors.NotFound("Course not found")
	}
	return course, nil
}

// publishedChapter loads a published chapter of a published course.
func (l *Learning) publishedChapter(ctx context.Context, courseID, chapterID string) (*models.Course, *models.Chapter, error) {
	course, err := l.publishedCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	chapter, err := l.repo.FindChapter(ctx, courseID, chapterID)
	if err != nil {
		return nil, nil, storeError(err, "Chapter not found")
	}
	if !chapter.IsPublished {
		return nil, nil, apperrors.NotFound("Chapter not found")
	}
	return course, chapter, nil
}

func (l *Learning) purchase(ctx context.Context, userID string, course *models.Course) (*models.Purchase, error) {
	purchase, err := l.repo.FindPurchase(ctx, userID, course.ID)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to load purchase", err)
	}
	return purchase, nil
}

func (l *Learning) GetCourseOutline(ctx context.Context, userID, courseID string) (*CourseOutline, error) {
	course, err := l.publishedCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	chapters, err := l.repo.ListPublishedChapters(ctx, courseID)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to load chapters", err)
	}
	purchase, err := l.purchase(ctx, userID, course)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(chapters))
	for i := range chapters {
		ids[i] = chapters[i].ID
	}
	completed, err := l.repo.CompletedChapterIDs(ctx, userID, ids)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to load progress", err)
	}

	outline := &CourseOutline{
		ID:        course.ID,
		Title:     course.Title,
		Price:     course.Price,
		Chapters:  make([]OutlineChapter, len(chapters)),
		Purchased: purchase != nil,
	}
	for i, ch := range chapters {
		outline.Chapters[i] = OutlineChapter{
			ID:          ch.ID,
			Title:       ch.Title,
			Position:    ch.Position,
			IsFree:      ch.IsFree,
			IsCompleted: completed[ch.ID],
			IsLocked:    !ch.IsFree && purchase == nil,
		}
	}
	if purchase != nil {
		progress := l.progress.ComputeProgress(ctx, userID, courseID)
		outline.Progress = &progress
	}
	return outline, nil
}

func (l *Learning) GetChapterView(ctx context.Context, userID, courseID, chapterID string) (*ChapterView, error) {
	course, chapter, err := l.publishedChapter(ctx, courseID, chapterID)
	if err != nil {
		return nil, err
	}
	purchase, err := l.purchase(ctx, userID, course)
	if err != nil {
		return nil, err
	}

	view := &ChapterView{
		Chapter:     chapter,
		CoursePrice: course.Price,
		Attachments: []models.Attachment{},
		Purchase:    purchase,
		IsLocked:    !chapter.IsFree && purchase == nil,
	}

	if purchase != nil {
		if view.Attachments, err = l.repo.ListAttachments(ctx, courseID); err != nil {
			return nil, apperrors.Unavailable("Failed to load attachments", err)
		}
	}
	if view.NextChapter, err = l.repo.NextPublishedChapter(ctx, courseID, chapter.Position); err != nil {
		return nil, apperrors.Unavailable("Failed to load chapters", err)
	}
	if view.UserProgress, err = l.repo.FindProgress(ctx, userID, chapterID); err != nil {
		return nil, apperrors.Unavailable("Failed to load progress", err)
	}

	if view.IsLocked {
		redactVideo(chapter)
	}
	if next := view.NextChapter; next != nil && !next.IsFree && purchase == nil {
		redactVideo(next)
	}
	return view, nil
}

// redactVideo withholds the video of a chapter the user may not watch.
func redactVideo(chapter *models.Chapter) {
	chapter.VideoURL = ""
	chapter.VideoPublicID = ""
}

// FirstChapter returns the chapter a student lands on when opening a course.
func (l *Learning) FirstChapter(ctx context.Context, courseID string) (*models.Chapter, error) {
	if _, err := l.publishedCourse(ctx, courseID); err != nil {
		return nil, err
	}
	chapters, err := l.repo.ListPublishedChapters(ctx, courseID)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to load chapters", err)
	}
	if len(chapters) == 0 {
		return nil, apperrors.NotFound("Chapter not found")
	}
	return &chapters[0], nil
}

// Progress returns the user's completion for a published course.
func (l *Learning) Progress(ctx context.Context, userID, courseID string) (float64, error) {
	if _, err := l.publishedCourse(ctx, courseID); err != nil {
		return 0, err
	}
	return l.progress.ComputeProgress(ctx, userID, courseID), nil
}

// MarkChapterProgress records completion of a chapter the user can watch.
func (l *Learning) MarkChapterProgress(ctx context.Context, userID, courseID, chapterID string, isCompleted bool) (*models.UserProgress, error) {
	course, chapter, err := l.publishedChapter(ctx, courseID, chapterID)
	if err != nil {
		return nil, err
	}
	if !chapter.IsFree {
		purchase, err := l.purchase(ctx, userID, course)
		if err != nil {
			return nil, err
		}
		if purchase == nil {
			return nil, apperrors.Forbidden("Chapter is locked")
		}
	}

	err = l.repo.UpsertProgress(ctx, &models.UserProgress{
		ID:          utils.GenerateID(),
		UserID:      userID,
		ChapterID:   chapterID,
		IsCompleted: isCompleted,
	})
	if err != nil {
		return nil, apperrors.Unavailable("Failed to save progress", err)
	}

	progress, err := l.repo.FindProgress(ctx, userID, chapterID)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to load progress", err)
	}
	return progress, nil
}

// ErrPaidCourse is returned by Enroll for courses that must go through checkout.
var ErrPaidCourse = apperrors.BadRequest("Course is not free, use checkout")

// Enroll grants access to a free course. Enrolling twice is a no-op.
func (l *Learning) Enroll(ctx context.Context, userID, courseID string) (*models.Purchase, error) {
	course, err := l.publishedCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsFree() {
		return nil, ErrPaidCourse
	}

	if _, err := recordPurchase(ctx, l.repo, &models.Purchase{
		ID:       utils.GenerateID(),
		UserID:   userID,
		CourseID: courseID,
	}); err != nil {
		return nil, storeError(err, "Course not found")
	}

	purchase, err := l.repo.FindPurchase(ctx, userID, courseID)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to enroll", err)
	}
	if purchase == nil {
		return nil, apperrors.Unavailable("Failed to enroll", errors.New("purchase missing after insert"))
	}
	return purchase, nil
}
