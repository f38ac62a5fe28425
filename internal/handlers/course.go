package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/services"
)

// optionalQuery returns nil for an absent or empty query parameter.
func optionalQuery(c *gin.Context, key string) *string {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return nil
	}
	return &value
}

// ListCourses serves the browse page: published courses with the caller's progress.
func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.svc.Catalog.ListCourses(c.Request.Context(), services.CourseFilter{
		UserID:     userID(c),
		Title:      optionalQuery(c, "title"),
		CategoryID: optionalQuery(c, "categoryId"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

type CreateCourseInput struct {
	Title string `json:"title" binding:"required"`
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var input CreateCourseInput
	if !bindJSON(c, &input) {
		return
	}

	course, err := h.svc.Authoring.CreateCourse(c.Request.Context(), userID(c), input.Title)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"course": course})
}

// ListTeacherCourses lists the caller's own courses, drafts included.
func (h *Handler) ListTeacherCourses(c *gin.Context) {
	courses, err := h.svc.Authoring.ListOwnedCourses(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *Handler) GetCourse(c *gin.Context) {
	detail, err := h.svc.Authoring.GetOwnedCourse(c.Request.Context(), userID(c), c.Param("courseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": detail})
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	var input services.CourseUpdate
	if !bindJSON(c, &input) {
		return
	}

	course, err := h.svc.Authoring.UpdateCourse(c.Request.Context(), userID(c), c.Param("courseId"), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *Handler) DeleteCourse(c *gin.Context) {
	if err := h.svc.Authoring.DeleteCourse(c.Request.Context(), userID(c), c.Param("courseId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}

func (h *Handler) PublishCourse(c *gin.Context) {
	course, err := h.svc.Publisher.PublishCourse(c.Request.Context(), userID(c), c.Param("courseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *Handler) UnpublishCourse(c *gin.Context) {
	course, err := h.svc.Publisher.UnpublishCourse(c.Request.Context(), userID(c), c.Param("courseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *Handler) AddAttachment(c *gin.Context) {
	var input services.AttachmentInput
	if !bindJSON(c, &input) {
		return
	}

	attachment, err := h.svc.Authoring.AddAttachment(c.Request.Context(), userID(c), c.Param("courseId"), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"attachment": attachment})
}

func (h *Handler) DeleteAttachment(c *gin.Context) {
	err := h.svc.Authoring.DeleteAttachment(c.Request.Context(), userID(c), c.Param("courseId"), c.Param("attachmentId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted"})
}
