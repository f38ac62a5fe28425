package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey(FolderCourseVideo, "Lesson 1.MP4")
	assert.True(t, strings.HasPrefix(key, "course_video/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))
	assert.NotContains(t, key, "Lesson")
}

func TestValidFolder(t *testing.T) {
	assert.True(t, ValidFolder(FolderCourseImage))
	assert.True(t, ValidFolder(FolderCourseAttachments))
	assert.False(t, ValidFolder("../etc"))
	assert.False(t, ValidFolder(""))
}

func TestNoopStore(t *testing.T) {
	var store MediaStore = NoopStore{}
	_, err := store.Upload(context.Background(), FolderCourseImage, "a.png", "image/png", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NoError(t, store.Delete(context.Background(), "course_image/a.png"))
}
