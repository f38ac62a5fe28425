package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/handlers"
	"github.com/pushp314/coursehub-backend/internal/middleware"
)

// RegisterCourseRoutes mounts authoring and learning endpoints. Every course route
// needs a signed-in user; ownership is checked by the services.
func RegisterCourseRoutes(r gin.IRouter, h *handlers.Handler) {
	courses := r.Group("/courses")
	courses.Use(middleware.AuthMiddleware(h.Repo(), h.Cache()))
	{
		courses.GET("", h.ListCourses)
		courses.POST("", h.CreateCourse)

		courses.GET("/:courseId", h.GetCourse)
		courses.PATCH("/:courseId", h.UpdateCourse)
		courses.DELETE("/:courseId", h.DeleteCourse)
		courses.PATCH("/:courseId/publish", h.PublishCourse)
		courses.PATCH("/:courseId/unpublish", h.UnpublishCourse)

		courses.POST("/:courseId/attachments", h.AddAttachment)
		courses.DELETE("/:courseId/attachments/:attachmentId", h.DeleteAttachment)

		courses.POST("/:courseId/chapters", h.CreateChapter)
		courses.PUT("/:courseId/chapters/reorder", h.ReorderChapters)
		courses.PATCH("/:courseId/chapters/:chapterId", h.UpdateChapter)
		courses.DELETE("/:courseId/chapters/:chapterId", h.DeleteChapter)
		courses.PATCH("/:courseId/chapters/:chapterId/publish", h.PublishChapter)
		courses.PATCH("/:courseId/chapters/:chapterId/unpublish", h.UnpublishChapter)

		// Learner side
		courses.GET("/:courseId/outline", h.GetCourseOutline)
		courses.GET("/:courseId/progress", h.GetCourseProgress)
		courses.GET("/:courseId/first-chapter", h.GetFirstChapter)
		courses.GET("/:courseId/chapters/:chapterId", h.GetChapter)
		courses.PUT("/:courseId/chapters/:chapterId/progress", h.UpdateChapterProgress)
		courses.POST("/:courseId/enroll", middleware.RequireEnrollmentOpen(h.Repo()), h.Enroll)
	}

	teacher := r.Group("/teacher")
	teacher.Use(middleware.AuthMiddleware(h.Repo(), h.Cache()))
	{
		teacher.GET("/courses", h.ListTeacherCourses)
		teacher.GET("/courses/:courseId/chapters/:chapterId", h.GetTeacherChapter)
	}
}
