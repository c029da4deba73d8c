package routes

import (
	"net/http"

	"outcome-tracking-backend/app/service"
	"outcome-tracking-backend/middleware"
	"outcome-tracking-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OutcomeHandler menangani CRUD taksonomi capaian (CPL & CPMK).
type OutcomeHandler struct {
	outcomeService service.OutcomeService
}

// NewOutcomeHandler membuat instance handler taksonomi.
func NewOutcomeHandler(outcomeService service.OutcomeService) *OutcomeHandler {
	return &OutcomeHandler{outcomeService: outcomeService}
}

// SetupOutcomeRoutes mendaftarkan endpoint CPL/CPMK.
// Mutasi hanya untuk admin/kaprodi; daftar dibatasi scope prodi caller.
func (h *OutcomeHandler) SetupOutcomeRoutes(r *gin.Engine) {
	grp := r.Group("/api/v1")
	grp.Use(middleware.AuthMiddleware())
	{
		grp.GET("/cpl", h.ListCPLs)
		grp.POST("/cpl", h.CreateCPL)
		grp.PUT("/cpl/:id", h.UpdateCPL)
		grp.DELETE("/cpl/:id", h.DeleteCPL)

		grp.GET("/cpmk", h.ListCPMKs)
		grp.POST("/cpmk", h.CreateCPMK)
		grp.PUT("/cpmk/:id", h.UpdateCPMK)
		grp.DELETE("/cpmk/:id", h.DeleteCPMK)
	}
}

// outcomePayload adalah DTO create/update CPL maupun CPMK.
type outcomePayload struct {
	ProgramID   string `json:"programId" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *OutcomeHandler) bindOutcome(ctx *gin.Context) (service.OutcomeInput, bool) {
	var input outcomePayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return service.OutcomeInput{}, false
	}
	programID, err := uuid.Parse(input.ProgramID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format program ID salah (harus UUID)", err.Error(), nil))
		return service.OutcomeInput{}, false
	}
	return service.OutcomeInput{
		ProgramID:   programID,
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
	}, true
}

// ListCPLs mengembalikan daftar CPL pada scope prodi caller.
func (h *OutcomeHandler) ListCPLs(ctx *gin.Context) {
	rows, err := h.outcomeService.ListCPLs(programScopeFromClaims(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil daftar CPL", rows))
}

// CreateCPL membuat CPL baru.
func (h *OutcomeHandler) CreateCPL(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi") {
		return
	}
	input, ok := h.bindOutcome(ctx)
	if !ok {
		return
	}

	c, message, err := h.outcomeService.CreateCPL(input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess(message, c))
}

// UpdateCPL memperbarui CPL.
func (h *OutcomeHandler) UpdateCPL(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi") {
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	input, ok := h.bindOutcome(ctx)
	if !ok {
		return
	}

	c, message, err := h.outcomeService.UpdateCPL(id, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(message, c))
}

// DeleteCPL menghapus CPL (pemetaan Course-CPL ikut cascade).
func (h *OutcomeHandler) DeleteCPL(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi") {
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	message, err := h.outcomeService.DeleteCPL(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(message, nil))
}

// ListCPMKs mengembalikan daftar CPMK pada scope prodi caller.
func (h *OutcomeHandler) ListCPMKs(ctx *gin.Context) {
	rows, err := h.outcomeService.ListCPMKs(programScopeFromClaims(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil daftar CPMK", rows))
}

// CreateCPMK membuat CPMK baru (boleh belum terpetakan ke mana pun).
func (h *OutcomeHandler) CreateCPMK(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi") {
		return
	}
	input, ok := h.bindOutcome(ctx)
	if !ok {
		return
	}

	c, message, err := h.outcomeService.CreateCPMK(input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess(message, c))
}

// UpdateCPMK memperbarui CPMK.
func (h *OutcomeHandler) UpdateCPMK(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi") {
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	input, ok := h.bindOutcome(ctx)
	if !ok {
		return
	}

	c, message, err := h.outcomeService.UpdateCPMK(id, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(message, c))
}

// DeleteCPMK menghapus CPMK.
func (h *OutcomeHandler) DeleteCPMK(ctx *gin.Context) {
	if !requireRole(ctx, "admin", "kaprodi") {
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	message, err := h.outcomeService.DeleteCPMK(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(message, nil))
}
