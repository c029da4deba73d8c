package routes

import (
	"net/http"

	"outcome-tracking-backend/app/repository"
	"outcome-tracking-backend/app/service"
	"outcome-tracking-backend/middleware"
	"outcome-tracking-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MappingHandler menangani endpoint Weight Mapping Engine.
// Diskriminator action gaya lama (view|store|update|delete dalam satu payload)
// dipecah menjadi verba HTTP terpisah, masing-masing dengan DTO wajibnya sendiri.
type MappingHandler struct {
	mappingService service.MappingService
}

// NewMappingHandler membuat instance handler pemetaan bobot.
func NewMappingHandler(mappingService service.MappingService) *MappingHandler {
	return &MappingHandler{mappingService: mappingService}
}

// SetupMappingRoutes mendaftarkan endpoint pemetaan bobot.
// Semua endpoint wajib login; mutasi hanya untuk admin/kaprodi.
func (h *MappingHandler) SetupMappingRoutes(r *gin.Engine) {
	grp := r.Group("/api/v1")
	grp.Use(middleware.AuthMiddleware())
	{
		grp.GET("/courses/:courseId/cpl", h.ViewCourseCPL)
		grp.POST("/courses/:courseId/cpl", h.StoreCourseCPL)
		grp.PUT("/courses/:courseId/cpl", h.UpdateCourseCPL)
		grp.DELETE("/course-cpl/:id", h.DeleteCourseCPL)

		grp.GET("/courses/:courseId/cpmk-cpl", h.ViewCPMKCPL)
		grp.POST("/courses/:courseId/cpmk-cpl", h.StoreCPMKCPL)
		grp.PUT("/courses/:courseId/cpmk-cpl", h.UpdateCPMKCPL)
		grp.DELETE("/courses/:courseId/cpmk-cpl", h.DeleteCPMKCPL)
	}
}

// courseCPLPayload adalah DTO store/update pemetaan Course-CPL.
type courseCPLPayload struct {
	CPLs []struct {
		CPLID string   `json:"cplId" binding:"required"`
		Bobot *float64 `json:"bobot" binding:"required"`
	} `json:"cpls" binding:"required,min=1,dive"`
}

// ViewCourseCPL mengembalikan pemetaan CPL satu mata kuliah.
func (h *MappingHandler) ViewCourseCPL(ctx *gin.Context) {
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	rows, err := h.mappingService.ViewCourseCPL(courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK,
		utils.BuildResponseSuccess("Berhasil mengambil pemetaan CPL", rows))
}

// StoreCourseCPL menyimpan set pemetaan CPL baru (replace-all).
func (h *MappingHandler) StoreCourseCPL(ctx *gin.Context) {
	h.saveCourseCPL(ctx, service.ActionStore, http.StatusCreated)
}

// UpdateCourseCPL memperbarui set pemetaan CPL (replace-all, semantik sama).
func (h *MappingHandler) UpdateCourseCPL(ctx *gin.Context) {
	h.saveCourseCPL(ctx, service.ActionUpdate, http.StatusOK)
}

func (h *MappingHandler) saveCourseCPL(ctx *gin.Context, action service.Action, successCode int) {
	if !requireRole(ctx, "admin", "kaprodi") {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var input courseCPLPayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	items := make([]service.CourseCPLInput, 0, len(input.CPLs))
	for _, c := range input.CPLs {
		cplID, err := uuid.Parse(c.CPLID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Format CPL ID salah (harus UUID)", err.Error(), nil))
			return
		}
		items = append(items, service.CourseCPLInput{CPLID: cplID, Bobot: *c.Bobot})
	}

	rows, message, err := h.mappingService.SaveCourseCPL(action, courseID, items)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(successCode, utils.BuildResponseSuccess(message, rows))
}

// DeleteCourseCPL menghapus satu baris pemetaan Course-CPL berdasarkan ID.
func (h *MappingHandler) DeleteCourseCPL(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi") {
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	message, err := h.mappingService.DeleteCourseCPL(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(message, nil))
}

// cpmkCPLPayload adalah DTO store/update pemetaan CPMK-CPL.
type cpmkCPLPayload struct {
	CPMKs []struct {
		CPMKID string   `json:"cpmkId" binding:"required"`
		CPLID  string   `json:"cplId" binding:"required"`
		Bobot  *float64 `json:"bobot" binding:"required"`
	} `json:"cpmks" binding:"required,min=1,dive"`
}

// cpmkCPLDeletePayload adalah DTO delete pemetaan CPMK-CPL (per pasangan).
type cpmkCPLDeletePayload struct {
	CPMKs []struct {
		CPMKID string `json:"cpmkId" binding:"required"`
		CPLID  string `json:"cplId" binding:"required"`
	} `json:"cpmks" binding:"required,min=1,dive"`
}

// ViewCPMKCPL mengembalikan pemetaan CPMK-CPL satu mata kuliah.
func (h *MappingHandler) ViewCPMKCPL(ctx *gin.Context) {
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	rows, err := h.mappingService.ViewCPMKCPL(courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK,
		utils.BuildResponseSuccess("Berhasil mengambil pemetaan CPMK-CPL", rows))
}

// StoreCPMKCPL menyimpan set pemetaan CPMK-CPL baru (replace-all).
func (h *MappingHandler) StoreCPMKCPL(ctx *gin.Context) {
	h.saveCPMKCPL(ctx, service.ActionStore, http.StatusCreated)
}

// UpdateCPMKCPL memperbarui set pemetaan CPMK-CPL (replace-all).
func (h *MappingHandler) UpdateCPMKCPL(ctx *gin.Context) {
	h.saveCPMKCPL(ctx, service.ActionUpdate, http.StatusOK)
}

func (h *MappingHandler) saveCPMKCPL(ctx *gin.Context, action service.Action, successCode int) {
	if !requireRole(ctx, "admin", "kaprodi") {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var input cpmkCPLPayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	items := make([]service.CPMKCPLInput, 0, len(input.CPMKs))
	for _, c := range input.CPMKs {
		cpmkID, err := uuid.Parse(c.CPMKID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Format CPMK ID salah (harus UUID)", err.Error(), nil))
			return
		}
		cplID, err := uuid.Parse(c.CPLID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Format CPL ID salah (harus UUID)", err.Error(), nil))
			return
		}
		items = append(items, service.CPMKCPLInput{CPMKID: cpmkID, CPLID: cplID, Bobot: *c.Bobot})
	}

	rows, message, err := h.mappingService.SaveCPMKCPL(action, courseID, items)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(successCode, utils.BuildResponseSuccess(message, rows))
}

// DeleteCPMKCPL menghapus pasangan-pasangan (cpmk, cpl) yang diminta.
func (h *MappingHandler) DeleteCPMKCPL(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi") {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var input cpmkCPLDeletePayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	pairs := make([]repository.CPMKCPLKey, 0, len(input.CPMKs))
	for _, c := range input.CPMKs {
		cpmkID, err := uuid.Parse(c.CPMKID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Format CPMK ID salah (harus UUID)", err.Error(), nil))
			return
		}
		cplID, err := uuid.Parse(c.CPLID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Format CPL ID salah (harus UUID)", err.Error(), nil))
			return
		}
		pairs = append(pairs, repository.CPMKCPLKey{CPMKID: cpmkID, CPLID: cplID})
	}

	message, err := h.mappingService.DeleteCPMKCPL(courseID, pairs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(message, nil))
}
