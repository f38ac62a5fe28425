package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChapterViewLocking(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, course, chapters := publishedCourseWithChapters(e, 2)
	e.fx.Attachment(course.ID, "notes.pdf")
	student := e.fx.User("student")

	view, err := e.svc.Learning.GetChapterView(ctx, student.ID, course.ID, chapters[0].ID)
	require.NoError(t, err)
	assert.True(t, view.IsLocked)
	assert.Empty(t, view.Chapter.VideoURL)
	assert.Empty(t, view.Attachments)
	require.NotNil(t, view.NextChapter)
	assert.Equal(t, chapters[1].ID, view.NextChapter.ID)
	assert.Empty(t, view.NextChapter.VideoURL)
	assert.Empty(t, view.NextChapter.VideoPublicID)

	e.fx.Purchase(student.ID, course.ID)

	view, err = e.svc.Learning.GetChapterView(ctx, student.ID, course.ID, chapters[1].ID)
	require.NoError(t, err)
	assert.False(t, view.IsLocked)
	assert.NotEmpty(t, view.Chapter.VideoURL)
	assert.Len(t, view.Attachments, 1)
	assert.Nil(t, view.NextChapter)
	assert.NotNil(t, view.Purchase)
}

func TestChapterViewHidesUnpublished(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, course, _ := publishedCourseWithChapters(e, 1)
	draft := e.fx.Chapter(course.ID, "draft", 5, false)

	_, err := e.svc.Learning.GetChapterView(ctx, "anyone", course.ID, draft.ID)
	assertAppError(t, err, http.StatusNotFound)

	hidden := e.fx.Course(e.fx.User("author").ID, "Hidden")
	_, err = e.svc.Learning.GetCourseOutline(ctx, "anyone", hidden.ID)
	assertAppError(t, err, http.StatusNotFound)
}

func TestMarkChapterProgress(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, course, chapters := publishedCourseWithChapters(e, 2)
	free := e.fx.Chapter(course.ID, "free", 2, true, func(c *models.Chapter) { c.IsFree = true })
	student := e.fx.User("student")

	_, err := e.svc.Learning.MarkChapterProgress(ctx, student.ID, course.ID, chapters[0].ID, true)
	assertAppError(t, err, http.StatusForbidden)

	progress, err := e.svc.Learning.MarkChapterProgress(ctx, student.ID, course.ID, free.ID, true)
	require.NoError(t, err)
	assert.True(t, progress.IsCompleted)

	e.fx.Purchase(student.ID, course.ID)
	_, err = e.svc.Learning.MarkChapterProgress(ctx, student.ID, course.ID, chapters[0].ID, true)
	require.NoError(t, err)

	outline, err := e.svc.Learning.GetCourseOutline(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, outline.Chapters, 3)
	assert.True(t, outline.Purchased)
	assert.True(t, outline.Chapters[0].IsCompleted)
	assert.False(t, outline.Chapters[1].IsCompleted)
	require.NotNil(t, outline.Progress)
	assert.InDelta(t, 66.67, *outline.Progress, 0.01)

	progress, err = e.svc.Learning.MarkChapterProgress(ctx, student.ID, course.ID, chapters[0].ID, false)
	require.NoError(t, err)
	assert.False(t, progress.IsCompleted)
}

func TestFirstChapter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, course, chapters := publishedCourseWithChapters(e, 2)

	first, err := e.svc.Learning.FirstChapter(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, chapters[0].ID, first.ID)
}

func TestEnroll(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.fx.User("owner")
	student := e.fx.User("student")
	cat := e.fx.Category("Music")

	free := e.fx.PublishableCourse(owner.ID, "Free", cat.ID, func(c *models.Course) {
		c.Price = ptr(0.0)
		c.IsPublished = true
	})
	paid := e.fx.PublishableCourse(owner.ID, "Paid", cat.ID, func(c *models.Course) { c.IsPublished = true })

	first, err := e.svc.Learning.Enroll(ctx, student.ID, free.ID)
	require.NoError(t, err)
	second, err := e.svc.Learning.Enroll(ctx, student.ID, free.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = e.svc.Learning.Enroll(ctx, student.ID, paid.ID)
	assertAppError(t, err, http.StatusBadRequest)
}

func TestFreeChapterViewWithholdsPaidNextVideo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.fx.User("owner")
	cat := e.fx.Category("Web")
	course := e.fx.PublishableCourse(owner.ID, "Web", cat.ID, func(c *models.Course) { c.IsPublished = true })
	free := e.fx.Chapter(course.ID, "free", 0, true, func(c *models.Chapter) { c.IsFree = true })
	paid := e.fx.Chapter(course.ID, "paid", 1, true, func(c *models.Chapter) { c.VideoPublicID = "course_video/paid.mp4" })
	bonus := e.fx.Chapter(course.ID, "bonus", 2, true, func(c *models.Chapter) { c.IsFree = true })
	student := e.fx.User("student")

	view, err := e.svc.Learning.GetChapterView(ctx, student.ID, course.ID, free.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Purchase)
	assert.False(t, view.IsLocked)
	assert.NotEmpty(t, view.Chapter.VideoURL)
	require.NotNil(t, view.NextChapter)
	assert.Equal(t, paid.ID, view.NextChapter.ID)
	assert.False(t, view.NextChapter.IsFree)
	assert.Empty(t, view.NextChapter.VideoURL)
	assert.Empty(t, view.NextChapter.VideoPublicID)

	view, err = e.svc.Learning.GetChapterView(ctx, student.ID, course.ID, paid.ID)
	require.NoError(t, err)
	require.NotNil(t, view.NextChapter)
	assert.Equal(t, bonus.ID, view.NextChapter.ID)
	assert.NotEmpty(t, view.NextChapter.VideoURL, "free chapters stay watchable")

	e.fx.Purchase(student.ID, course.ID)
	view, err = e.svc.Learning.GetChapterView(ctx, student.ID, course.ID, free.ID)
	require.NoError(t, err)
	require.NotNil(t, view.NextChapter)
	assert.NotEmpty(t, view.NextChapter.VideoURL)
}
