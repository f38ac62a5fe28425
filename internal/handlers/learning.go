package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCourseOutline(c *gin.Context) {
	outline, err := h.svc.Learning.GetCourseOutline(c.Request.Context(), userID(c), c.Param("courseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": outline})
}

func (h *Handler) GetCourseProgress(c *gin.Context) {
	progress, err := h.svc.Learning.Progress(c.Request.Context(), userID(c), c.Param("courseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// GetFirstChapter resolves the chapter a course link should open.
func (h *Handler) GetFirstChapter(c *gin.Context) {
	chapter, err := h.svc.Learning.FirstChapter(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapterId": chapter.ID})
}

func (h *Handler) GetChapter(c *gin.Context) {
	view, err := h.svc.Learning.GetChapterView(c.Request.Context(), userID(c), c.Param("courseId"), c.Param("chapterId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type ProgressInput struct {
	IsCompleted *bool `json:"isCompleted" binding:"required"`
}

func (h *Handler) UpdateChapterProgress(c *gin.Context) {
	var input ProgressInput
	if !bindJSON(c, &input) {
		return
	}

	progress, err := h.svc.Learning.MarkChapterProgress(c.Request.Context(), userID(c), c.Param("courseId"), c.Param("chapterId"), *input.IsCompleted)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userProgress": progress})
}

func (h *Handler) Enroll(c *gin.Context) {
	purchase, err := h.svc.Learning.Enroll(c.Request.Context(), userID(c), c.Param("courseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}
