package service

import (
	"net/http"

	"outcome-tracking-backend/app/model"
	"outcome-tracking-backend/app/repository"
	"outcome-tracking-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClassService mengelola penugasan dosen pengampu pada kelas.
// Baris penugasan inilah yang dibaca gate Score Aggregator.
type ClassService interface {
	AssignLecturer(ctx *gin.Context)
	UnassignLecturer(ctx *gin.Context)
	GetAssignments(ctx *gin.Context)
}

type classService struct {
	classRepo      repository.ClassRepository
	curriculumRepo repository.CurriculumRepository
}

// NewClassService membuat instance baru classService.
func NewClassService(classRepo repository.ClassRepository, curriculumRepo repository.CurriculumRepository) ClassService {
	return &classService{
		classRepo:      classRepo,
		curriculumRepo: curriculumRepo,
	}
}

// helper: hanya admin / kaprodi yang boleh mengubah penugasan
func ensurePengelola(ctx *gin.Context) bool {
	role := ctx.GetString("role")
	if role != "admin" && role != "kaprodi" {
		ctx.JSON(http.StatusForbidden,
			utils.BuildResponseFailed("Hanya admin atau kaprodi yang dapat mengakses fitur ini", "forbidden", nil))
		return false
	}
	return true
}

// AssignLecturer menugaskan seorang dosen pada satu kelas.
func (s *classService) AssignLecturer(ctx *gin.Context) {
	if !ensurePengelola(ctx) {
		return
	}

	classID, err := uuid.Parse(ctx.Param("classId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format class ID salah (harus UUID)", err.Error(), nil))
		return
	}

	var input struct {
		LecturerID string `json:"lecturerId" binding:"required"`
		Role       string `json:"role" binding:"omitempty,oneof=Lead Co-1 Co-2"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	lecturerID, err := uuid.Parse(input.LecturerID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format lecturer ID salah (harus UUID)", err.Error(), nil))
		return
	}

	if _, err := s.curriculumRepo.FindClassByID(classID); err != nil {
		ctx.JSON(http.StatusNotFound,
			utils.BuildResponseFailed("Kelas tidak ditemukan", err.Error(), nil))
		return
	}

	role := input.Role
	if role == "" {
		role = "Lead"
	}

	cl := model.ClassLecturer{
		ID:         uuid.New(),
		ClassID:    classID,
		LecturerID: lecturerID,
		Role:       role,
	}
	if err := s.classRepo.AssignLecturer(&cl); err != nil {
		ctx.JSON(http.StatusInternalServerError,
			utils.BuildResponseFailed("Gagal menugaskan dosen", err.Error(), nil))
		return
	}

	ctx.JSON(http.StatusCreated,
		utils.BuildResponseSuccess("Dosen berhasil ditugaskan pada kelas.", cl))
}

// UnassignLecturer mencabut penugasan dosen dari kelas.
func (s *classService) UnassignLecturer(ctx *gin.Context) {
	if !ensurePengelola(ctx) {
		return
	}

	classID, err := uuid.Parse(ctx.Param("classId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format class ID salah (harus UUID)", err.Error(), nil))
		return
	}
	lecturerID, err := uuid.Parse(ctx.Param("lecturerId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format lecturer ID salah (harus UUID)", err.Error(), nil))
		return
	}

	affected, err := s.classRepo.UnassignLecturer(classID, lecturerID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError,
			utils.BuildResponseFailed("Gagal mencabut penugasan", err.Error(), nil))
		return
	}
	if affected == 0 {
		ctx.JSON(http.StatusNotFound,
			utils.BuildResponseFailed("Penugasan tidak ditemukan", "not_found", nil))
		return
	}

	ctx.JSON(http.StatusOK,
		utils.BuildResponseSuccess("Penugasan dosen berhasil dicabut.", nil))
}

// GetAssignments mengambil daftar dosen pengampu satu kelas.
func (s *classService) GetAssignments(ctx *gin.Context) {
	classID, err := uuid.Parse(ctx.Param("classId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format class ID salah (harus UUID)", err.Error(), nil))
		return
	}

	rows, err := s.classRepo.FindAssignments(classID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError,
			utils.BuildResponseFailed("Gagal mengambil daftar pengampu", err.Error(), nil))
		return
	}

	ctx.JSON(http.StatusOK,
		utils.BuildResponseSuccess("Berhasil mengambil daftar pengampu kelas", rows))
}
