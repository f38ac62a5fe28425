package services

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPublishCourse(t *testing.T) {
	complete := CourseFields{
		Title:       "Go",
		Description: "Learn Go",
		ImageURL:    "https://cdn.test/go.png",
		Price:       ptr(10.0),
		CategoryID:  ptr("cat"),
	}

	tests := []struct {
		name         string
		mutate       func(*CourseFields)
		hasPublished bool
		missing      []string
	}{
		{name: "complete", hasPublished: true},
		{name: "free course", mutate: func(f *CourseFields) { f.Price = ptr(0.0) }, hasPublished: true},
		{name: "no published chapter", missing: []string{FieldPublishedChapter}},
		{name: "blank title", mutate: func(f *CourseFields) { f.Title = "  " }, hasPublished: true, missing: []string{FieldTitle}},
		{name: "no price", mutate: func(f *CourseFields) { f.Price = nil }, hasPublished: true, missing: []string{FieldPrice}},
		{name: "empty category", mutate: func(f *CourseFields) { f.CategoryID = ptr("") }, hasPublished: true, missing: []string{FieldCategoryID}},
		{
			name:    "nothing",
			mutate:  func(f *CourseFields) { *f = CourseFields{} },
			missing: []string{FieldTitle, FieldDescription, FieldImageURL, FieldPrice, FieldCategoryID, FieldPublishedChapter},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := complete
			if tt.mutate != nil {
				tt.mutate(&f)
			}
			assert.Equal(t, tt.missing, MissingCourseFields(f, tt.hasPublished))
			assert.Equal(t, len(tt.missing) == 0, CanPublishCourse(f, tt.hasPublished))
		})
	}
}

func TestCanPublishChapter(t *testing.T) {
	assert.True(t, CanPublishChapter(ChapterFields{Title: "a", Description: "b", VideoURL: "c"}))
	assert.False(t, CanPublishChapter(ChapterFields{Title: "a", Description: "b"}))
	assert.Equal(t, []string{FieldDescription, FieldVideoURL}, MissingChapterFields(ChapterFields{Title: "a"}))
}

func TestCourseCompletion(t *testing.T) {
	completed, total := CourseCompletion(CourseFields{Title: "a", Description: "b"}, false)
	assert.Equal(t, 2, completed)
	assert.Equal(t, 6, total)
}

func TestPublishCourse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := e.fx.User("owner")
	other := e.fx.User("other")
	cat := e.fx.Category("Music")
	course := e.fx.PublishableCourse(owner.ID, "Guitar", cat.ID)

	_, err := e.svc.Publisher.PublishCourse(ctx, owner.ID, course.ID)
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{FieldPublishedChapter}, appErr.Fields)

	e.fx.Chapter(course.ID, "intro", 0, true)

	_, err = e.svc.Publisher.PublishCourse(ctx, other.ID, course.ID)
	assertAppError(t, err, http.StatusNotFound)

	published, err := e.svc.Publisher.PublishCourse(ctx, owner.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)

	stored, err := e.repo.FindCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPublished)

	_, err = e.svc.Publisher.UnpublishCourse(ctx, owner.ID, course.ID)
	require.NoError(t, err)
	stored, _ = e.repo.FindCourse(ctx, course.ID)
	assert.False(t, stored.IsPublished)
}

func TestPublishChapterRequiresVideo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := e.fx.User("owner")
	course := e.fx.Course(owner.ID, "Course")
	chapter := e.fx.Chapter(course.ID, "intro", 0, false, func(c *models.Chapter) { c.VideoURL = "" })

	_, err := e.svc.Publisher.PublishChapter(ctx, owner.ID, course.ID, chapter.ID)
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{FieldVideoURL}, appErr.Fields)

	_, err = e.svc.Publisher.PublishChapter(ctx, owner.ID, course.ID, "missing")
	assertAppError(t, err, http.StatusNotFound)
}

func publishedCourseWithChapters(e *env, n int) (models.User, models.Course, []models.Chapter) {
	owner := e.fx.User("owner")
	cat := e.fx.Category("Web")
	course := e.fx.PublishableCourse(owner.ID, "Web", cat.ID, func(c *models.Course) { c.IsPublished = true })
	chapters := make([]models.Chapter, n)
	for i := range chapters {
		chapters[i] = e.fx.Chapter(course.ID, "chapter", i, true, func(c *models.Chapter) {
			c.VideoPublicID = "course_video/" + c.ID
		})
		e.fx.Upload(owner.ID, chapters[i].VideoPublicID)
	}
	return owner, course, chapters
}

func TestUnpublishChapterCascade(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, course, chapters := publishedCourseWithChapters(e, 2)

	unpublished, err := e.svc.Publisher.UnpublishChapter(ctx, owner.ID, course.ID, chapters[0].ID)
	require.NoError(t, err)
	assert.False(t, unpublished, "another published chapter remains")

	stored, _ := e.repo.FindCourse(ctx, course.ID)
	assert.True(t, stored.IsPublished)

	unpublished, err = e.svc.Publisher.UnpublishChapter(ctx, owner.ID, course.ID, chapters[1].ID)
	require.NoError(t, err)
	assert.True(t, unpublished)

	stored, _ = e.repo.FindCourse(ctx, course.ID)
	assert.False(t, stored.IsPublished)
}

func TestDeleteLastPublishedChapter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, course, chapters := publishedCourseWithChapters(e, 1)
	student := e.fx.User("student")
	e.fx.Completed(student.ID, chapters[0].ID)

	unpublished, err := e.svc.Publisher.DeleteChapter(ctx, owner.ID, course.ID, chapters[0].ID)
	require.NoError(t, err)
	assert.True(t, unpublished)

	stored, _ := e.repo.FindCourse(ctx, course.ID)
	assert.False(t, stored.IsPublished)

	_, err = e.repo.FindChapter(ctx, course.ID, chapters[0].ID)
	assert.Error(t, err)
	progress, err := e.repo.FindProgress(ctx, student.ID, chapters[0].ID)
	require.NoError(t, err)
	assert.Nil(t, progress)

	assert.Equal(t, []string{chapters[0].VideoPublicID}, e.media.deleted)
}

func TestDeleteChapterOfForeignCourse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, course, chapters := publishedCourseWithChapters(e, 1)
	intruder := e.fx.User("intruder")

	_, err := e.svc.Publisher.DeleteChapter(ctx, intruder.ID, course.ID, chapters[0].ID)
	assertAppError(t, err, http.StatusNotFound)

	_, err = e.repo.FindChapter(ctx, course.ID, chapters[0].ID)
	assert.NoError(t, err)
	assert.Empty(t, e.media.deleted)
}

func TestConcurrentUnpublishLeavesCourseUnpublished(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, course, chapters := publishedCourseWithChapters(e, 2)

	var wg sync.WaitGroup
	errs := make([]error, len(chapters))
	for i, ch := range chapters {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = e.svc.Publisher.UnpublishChapter(ctx, owner.ID, course.ID, id)
		}(i, ch.ID)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	stored, _ := e.repo.FindCourse(ctx, course.ID)
	assert.False(t, stored.IsPublished)

	count, err := e.repo.CountPublishedChapters(ctx, course.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
