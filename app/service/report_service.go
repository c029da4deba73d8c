package service

import (
	"net/http"

	"outcome-tracking-backend/app/repository"
	"outcome-tracking-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportService mengonsumsi agregat nilai terbobot untuk rekap per kelas.
// Scope akses:
// - Admin   : semua kelas
// - Kaprodi : kelas milik prodi sendiri
// - Dosen   : hanya kelas yang ditugaskan padanya
type ReportService interface {
	// GetClassResult merekap kontribusi terbobot per mahasiswa per CPMK
	// untuk satu kelas.
	GetClassResult(ctx *gin.Context)
}

// reportService implementasi konkrit ReportService.
type reportService struct {
	reportRepo     repository.ReportRepository
	classRepo      repository.ClassRepository
	curriculumRepo repository.CurriculumRepository
}

// NewReportService membuat instance baru reportService.
func NewReportService(reportRepo repository.ReportRepository, classRepo repository.ClassRepository, curriculumRepo repository.CurriculumRepository) ReportService {
	return &reportService{
		reportRepo:     reportRepo,
		classRepo:      classRepo,
		curriculumRepo: curriculumRepo,
	}
}

// getUUIDFromContext membantu mengambil uuid.UUID dari gin.Context key tertentu.
func getUUIDFromContext(ctx *gin.Context, key string) (uuid.UUID, bool) {
	if v, ok := ctx.Get(key); ok {
		if id, ok2 := v.(uuid.UUID); ok2 {
			return id, true
		}
	}
	return uuid.Nil, false
}

// GetClassResult mengembalikan rekap nilai satu kelas sesuai role pemanggil.
func (s *reportService) GetClassResult(ctx *gin.Context) {
	classID, err := uuid.Parse(ctx.Param("classId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format class ID salah (harus UUID)", err.Error(), nil))
		return
	}

	class, err := s.curriculumRepo.FindClassByID(classID)
	if err != nil {
		ctx.JSON(http.StatusNotFound,
			utils.BuildResponseFailed("Kelas tidak ditemukan", err.Error(), nil))
		return
	}

	// Scope akses diturunkan sekali dari klaim, lalu dicek eksplisit di sini;
	// tidak ada filter global yang diam-diam membatasi query.
	role := ctx.GetString("role")
	switch role {
	case "admin":
		// admin universitas: semua kelas

	case "kaprodi":
		programID, ok := getUUIDFromContext(ctx, "programID")
		if !ok || programID == uuid.Nil {
			ctx.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Autentikasi kaprodi tidak valid", "no_program_id", nil))
			return
		}
		course, err := s.curriculumRepo.FindCourseByID(class.CourseID)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError,
				utils.BuildResponseFailed("Gagal mengambil data mata kuliah", err.Error(), nil))
			return
		}
		if course.ProgramID != programID {
			ctx.JSON(http.StatusForbidden,
				utils.BuildResponseFailed("Kelas ini bukan milik prodi Anda", "program_mismatch", nil))
			return
		}

	case "dosen":
		lecturerID, ok := getUUIDFromContext(ctx, "lecturerID")
		if !ok || lecturerID == uuid.Nil {
			ctx.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Autentikasi dosen tidak valid", "no_lecturer_id", nil))
			return
		}
		assigned, err := s.classRepo.IsAssigned(classID, lecturerID)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError,
				utils.BuildResponseFailed("Gagal memeriksa penugasan", err.Error(), nil))
			return
		}
		if !assigned {
			ctx.JSON(http.StatusForbidden,
				utils.BuildResponseFailed("Anda tidak ditugaskan pada kelas ini", "not_assigned", nil))
			return
		}

	default:
		ctx.JSON(http.StatusForbidden,
			utils.BuildResponseFailed("Role tidak dikenali", "unknown_role", nil))
		return
	}

	result, err := s.reportRepo.GetClassResult(ctx.Request.Context(), classID.String())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError,
			utils.BuildResponseFailed("Gagal mengambil rekap kelas", err.Error(), nil))
		return
	}

	ctx.JSON(http.StatusOK,
		utils.BuildResponseSuccess("Berhasil mengambil rekap nilai kelas", result))
}
