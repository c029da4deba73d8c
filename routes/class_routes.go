package routes

import (
	"outcome-tracking-backend/app/service"
	"outcome-tracking-backend/middleware"

	"github.com/gin-gonic/gin"
)

// ClassRoutes mendaftarkan endpoint penugasan dosen pengampu.
// Baris penugasan yang dikelola di sini dibaca gate Score Aggregator.
func ClassRoutes(r *gin.Engine, s service.ClassService) {
	grp := r.Group("/api/v1/classes/:classId/lecturers")
	grp.Use(middleware.AuthMiddleware())
	{
		grp.GET("", s.GetAssignments)
		grp.POST("", s.AssignLecturer)
		grp.DELETE("/:lecturerId", s.UnassignLecturer)
	}
}
