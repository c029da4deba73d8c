package routes

import (
	"net/http"

	"outcome-tracking-backend/app/service"
	"outcome-tracking-backend/middleware"
	"outcome-tracking-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssessmentHandler menangani endpoint kategori & butir penilaian.
type AssessmentHandler struct {
	assessmentService service.AssessmentService
}

// NewAssessmentHandler membuat instance handler penilaian.
func NewAssessmentHandler(assessmentService service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// SetupAssessmentRoutes mendaftarkan endpoint penilaian.
// Mutasi untuk admin/kaprodi/dosen (dosen menyiapkan butir penilaian kelasnya).
func (h *AssessmentHandler) SetupAssessmentRoutes(r *gin.Engine) {
	grp := r.Group("/api/v1")
	grp.Use(middleware.AuthMiddleware())
	{
		grp.GET("/classes/:classId/assessments", h.ListAssessments)
		grp.POST("/classes/:classId/assessments", h.CreateAssessment)
		grp.DELETE("/assessments/:id", h.DeleteAssessment)

		grp.POST("/sub-assessments", h.StoreSubAssessment)
		grp.PUT("/sub-assessments/:id", h.UpdateSubAssessment)
		grp.DELETE("/sub-assessments/:id", h.DeleteSubAssessment)
	}
}

// ListAssessments mengembalikan kategori penilaian satu kelas beserta butirnya.
func (h *AssessmentHandler) ListAssessments(ctx *gin.Context) {
	classID, ok := parseUUIDParam(ctx, "classId")
	if !ok {
		return
	}

	rows, err := h.assessmentService.ListAssessments(classID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK,
		utils.BuildResponseSuccess("Berhasil mengambil daftar penilaian", rows))
}

// CreateAssessment membuat kategori penilaian baru pada satu kelas.
func (h *AssessmentHandler) CreateAssessment(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi", "dosen") {
		return
	}
	classID, ok := parseUUIDParam(ctx, "classId")
	if !ok {
		return
	}

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	a, message, err := h.assessmentService.CreateAssessment(classID, input.Name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess(message, a))
}

// DeleteAssessment menghapus kategori penilaian.
func (h *AssessmentHandler) DeleteAssessment(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi", "dosen") {
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	message, err := h.assessmentService.DeleteAssessment(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(message, nil))
}

// subAssessmentPayload adalah DTO store/update butir penilaian + pemetaan CPMK.
// Bobot boleh kosong: default 0, disengaja (bukan ditolak).
type subAssessmentPayload struct {
	AssessmentID string `json:"assessmentId" binding:"required"`
	ClassID      string `json:"classId" binding:"required"`
	Name         string `json:"name" binding:"required"`
	CPMKs        []struct {
		CPMKID string   `json:"cpmkId" binding:"required"`
		Bobot  *float64 `json:"bobot"`
	} `json:"cpmks" binding:"dive"`
}

func (h *AssessmentHandler) bindSubAssessment(ctx *gin.Context) (service.SubAssessmentInput, bool) {
	var input subAssessmentPayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return service.SubAssessmentInput{}, false
	}

	assessmentID, err := uuid.Parse(input.AssessmentID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format assessment ID salah (harus UUID)", err.Error(), nil))
		return service.SubAssessmentInput{}, false
	}
	classID, err := uuid.Parse(input.ClassID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format class ID salah (harus UUID)", err.Error(), nil))
		return service.SubAssessmentInput{}, false
	}

	out := service.SubAssessmentInput{
		AssessmentID: assessmentID,
		ClassID:      classID,
		Name:         input.Name,
	}
	for _, c := range input.CPMKs {
		cpmkID, err := uuid.Parse(c.CPMKID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Format CPMK ID salah (harus UUID)", err.Error(), nil))
			return service.SubAssessmentInput{}, false
		}
		out.CPMKs = append(out.CPMKs, service.SubCPMKInput{CPMKID: cpmkID, Bobot: c.Bobot})
	}
	return out, true
}

// StoreSubAssessment membuat butir penilaian baru + pemetaan CPMK-nya.
func (h *AssessmentHandler) StoreSubAssessment(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi", "dosen") {
		return
	}
	input, ok := h.bindSubAssessment(ctx)
	if !ok {
		return
	}

	sub, message, err := h.assessmentService.SaveSubAssessment(service.ActionStore, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess(message, sub))
}

// UpdateSubAssessment memperbarui butir penilaian + mengganti pemetaan CPMK-nya.
func (h *AssessmentHandler) UpdateSubAssessment(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi", "dosen") {
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	input, ok := h.bindSubAssessment(ctx)
	if !ok {
		return
	}
	input.ID = id

	sub, message, err := h.assessmentService.SaveSubAssessment(service.ActionUpdate, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(message, sub))
}

// DeleteSubAssessment menghapus butir penilaian (pemetaan ikut cascade).
func (h *AssessmentHandler) DeleteSubAssessment(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi", "dosen") {
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	message, err := h.assessmentService.DeleteSubAssessment(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(message, nil))
}
