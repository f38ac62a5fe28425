package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Repository, *testutil.Fixtures) {
	db := testutil.NewTestDB(t)
	return New(db), testutil.NewFixtures(t, db)
}

func strPtr(s string) *string { return &s }

func TestListPublishedCoursesFilters(t *testing.T) {
	repo, fx := setup(t)
	ctx := context.Background()

	owner := fx.User("owner")
	music := fx.Category("Music")
	web := fx.Category("Web Development")

	guitar := fx.PublishableCourse(owner.ID, "Guitar Basics", music.ID, func(c *models.Course) { c.IsPublished = true })
	golang := fx.PublishableCourse(owner.ID, "Go for the Web", web.ID, func(c *models.Course) { c.IsPublished = true })
	fx.PublishableCourse(owner.ID, "Draft Go Course", web.ID)
	fx.Chapter(golang.ID, "intro", 0, true)
	fx.Chapter(golang.ID, "draft", 1, false)

	all, err := repo.ListPublishedCourses(ctx, CourseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, golang.ID, all[0].ID, "newest first")
	assert.Equal(t, guitar.ID, all[1].ID)
	assert.Len(t, all[0].Chapters, 1, "only published chapters are preloaded")
	require.NotNil(t, all[0].Category)
	assert.Equal(t, "Web Development", all[0].Category.Name)

	byTitle, err := repo.ListPublishedCourses(ctx, CourseFilter{Title: strPtr("go FOR")})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, golang.ID, byTitle[0].ID)

	byCategory, err := repo.ListPublishedCourses(ctx, CourseFilter{CategoryID: strPtr(music.ID)})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, guitar.ID, byCategory[0].ID)

	wildcard, err := repo.ListPublishedCourses(ctx, CourseFilter{Title: strPtr("%")})
	require.NoError(t, err)
	assert.Empty(t, wildcard, "wildcards in the search term match literally")
}

func TestCreatePurchaseIsIdempotent(t *testing.T) {
	repo, fx := setup(t)
	ctx := context.Background()

	student := fx.User("student")
	course := fx.Course(fx.User("owner").ID, "Course")

	created, err := repo.CreatePurchase(ctx, &models.Purchase{ID: "p1", UserID: student.ID, CourseID: course.ID})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreatePurchase(ctx, &models.Purchase{ID: "p2", UserID: student.ID, CourseID: course.ID})
	require.NoError(t, err)
	assert.False(t, created)

	count, err := repo.CountCoursePurchases(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	purchased, err := repo.PurchasedCourseIDs(ctx, student.ID, []string{course.ID, "other"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{course.ID: true}, purchased)
}

func TestUpsertProgressKeepsSingleRow(t *testing.T) {
	repo, fx := setup(t)
	ctx := context.Background()

	student := fx.User("student")
	course := fx.Course(fx.User("owner").ID, "Course")
	chapter := fx.Chapter(course.ID, "one", 0, true)

	require.NoError(t, repo.UpsertProgress(ctx, &models.UserProgress{ID: "a", UserID: student.ID, ChapterID: chapter.ID, IsCompleted: true}))
	require.NoError(t, repo.UpsertProgress(ctx, &models.UserProgress{ID: "b", UserID: student.ID, ChapterID: chapter.ID, IsCompleted: false}))

	var rows []models.UserProgress
	require.NoError(t, repo.DB().Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsCompleted)

	count, err := repo.CountCompleted(ctx, student.ID, []string{chapter.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMaxChapterPosition(t *testing.T) {
	repo, fx := setup(t)
	ctx := context.Background()

	course := fx.Course(fx.User("owner").ID, "Course")

	_, ok, err := repo.MaxChapterPosition(ctx, course.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	fx.Chapter(course.ID, "a", 0, false)
	fx.Chapter(course.ID, "b", 4, false)

	max, ok, err := repo.MaxChapterPosition(ctx, course.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, max)
}

func TestDeleteCourseTree(t *testing.T) {
	repo, fx := setup(t)
	ctx := context.Background()

	student := fx.User("student")
	course := fx.Course(fx.User("owner").ID, "Course")
	chapter := fx.Chapter(course.ID, "one", 0, true)
	fx.Completed(student.ID, chapter.ID)
	fx.Attachment(course.ID, "notes.pdf")

	require.NoError(t, repo.Transaction(ctx, func(tx *Repository) error {
		return tx.DeleteCourseTree(ctx, course.ID)
	}))

	_, err := repo.FindCourse(ctx, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var chapters, progress, attachments int64
	repo.DB().Model(&models.Chapter{}).Count(&chapters)
	repo.DB().Model(&models.UserProgress{}).Count(&progress)
	repo.DB().Model(&models.Attachment{}).Count(&attachments)
	assert.Zero(t, chapters)
	assert.Zero(t, progress)
	assert.Zero(t, attachments)
}

func TestTransactionRollsBack(t *testing.T) {
	repo, fx := setup(t)
	ctx := context.Background()

	course := fx.Course(fx.User("owner").ID, "Course", func(c *models.Course) { c.IsPublished = true })
	chapter := fx.Chapter(course.ID, "one", 0, true)

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *Repository) error {
		if err := tx.SetChapterPublished(ctx, course.ID, chapter.ID, false); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := repo.CountPublishedChapters(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSettings(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	value, err := repo.GetSetting(ctx, models.SettingMaintenanceMode)
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, repo.SetSetting(ctx, models.SettingMaintenanceMode, "true", "admin"))
	require.NoError(t, repo.SetSetting(ctx, models.SettingMaintenanceMode, "false", "admin"))

	value, err = repo.GetSetting(ctx, models.SettingMaintenanceMode)
	require.NoError(t, err)
	assert.Equal(t, "false", value)
}

func TestReleasableUploads(t *testing.T) {
	repo, fx := setup(t)
	ctx := context.Background()

	owner := fx.User("owner")
	other := fx.User("other")
	fx.Upload(owner.ID, "course_video/kept.mp4")
	fx.Upload(owner.ID, "course_video/free.mp4")
	fx.Upload(other.ID, "course_video/theirs.mp4")

	course := fx.Course(owner.ID, "Course")
	fx.Chapter(course.ID, "uses kept", 0, false, func(c *models.Chapter) { c.VideoPublicID = "course_video/kept.mp4" })

	owned, err := repo.UploadedBy(ctx, owner.ID, "course_video/free.mp4")
	require.NoError(t, err)
	assert.True(t, owned)
	owned, err = repo.UploadedBy(ctx, owner.ID, "course_video/theirs.mp4")
	require.NoError(t, err)
	assert.False(t, owned)

	releasable, err := repo.ReleasableUploads(ctx, owner.ID, []string{
		"course_video/kept.mp4", "course_video/free.mp4", "course_video/theirs.mp4", "course_video/unknown.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"course_video/free.mp4"}, releasable)

	require.NoError(t, repo.DeleteUpload(ctx, "course_video/free.mp4"))
	owned, err = repo.UploadedBy(ctx, owner.ID, "course_video/free.mp4")
	require.NoError(t, err)
	assert.False(t, owned)
}
