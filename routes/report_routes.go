package routes

import (
	"outcome-tracking-backend/app/service"
	"outcome-tracking-backend/middleware"

	"github.com/gin-gonic/gin"
)

// ReportRoutes mendaftarkan endpoint rekap nilai kelas.
// Scope akses (admin/kaprodi/dosen) dicek di service dari klaim.
func ReportRoutes(r *gin.Engine, s service.ReportService) {
	grp := r.Group("/api/v1/classes/:classId/report")
	grp.Use(middleware.AuthMiddleware())
	{
		grp.GET("", s.GetClassResult)
	}
}
