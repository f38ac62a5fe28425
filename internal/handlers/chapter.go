package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/services"
)

type CreateChapterInput struct {
	Title string `json:"title" binding:"required"`
}

type ReorderInput struct {
	List []services.ChapterPosition `json:"list" binding:"required,dive"`
}

func (h *Handler) CreateChapter(c *gin.Context) {
	var input CreateChapterInput
	if !bindJSON(c, &input) {
		return
	}

	chapter, err := h.svc.Authoring.CreateChapter(c.Request.Context(), userID(c), c.Param("courseId"), input.Title)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"chapter": chapter})
}

// GetTeacherChapter loads a chapter for editing, published or not.
func (h *Handler) GetTeacherChapter(c *gin.Context) {
	chapter, err := h.svc.Authoring.GetOwnedChapter(c.Request.Context(), userID(c), c.Param("courseId"), c.Param("chapterId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapter": chapter})
}

func (h *Handler) UpdateChapter(c *gin.Context) {
	var input services.ChapterUpdate
	if !bindJSON(c, &input) {
		return
	}

	chapter, err := h.svc.Authoring.UpdateChapter(c.Request.Context(), userID(c), c.Param("courseId"), c.Param("chapterId"), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapter": chapter})
}

func (h *Handler) DeleteChapter(c *gin.Context) {
	unpublished, err := h.svc.Publisher.DeleteChapter(c.Request.Context(), userID(c), c.Param("courseId"), c.Param("chapterId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chapter deleted", "courseUnpublished": unpublished})
}

func (h *Handler) ReorderChapters(c *gin.Context) {
	var input ReorderInput
	if !bindJSON(c, &input) {
		return
	}

	chapters, err := h.svc.Authoring.ReorderChapters(c.Request.Context(), userID(c), c.Param("courseId"), input.List)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapters": chapters})
}

func (h *Handler) PublishChapter(c *gin.Context) {
	chapter, err := h.svc.Publisher.PublishChapter(c.Request.Context(), userID(c), c.Param("courseId"), c.Param("chapterId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapter": chapter})
}

func (h *Handler) UnpublishChapter(c *gin.Context) {
	unpublished, err := h.svc.Publisher.UnpublishChapter(c.Request.Context(), userID(c), c.Param("courseId"), c.Param("chapterId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chapter unpublished", "courseUnpublished": unpublished})
}
