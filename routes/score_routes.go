package routes

import (
	"net/http"
	"strings"

	"outcome-tracking-backend/app/service"
	"outcome-tracking-backend/middleware"
	"outcome-tracking-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ScoreHandler menangani endpoint nilai mahasiswa (Score Aggregator).
// Semua operasi digate penugasan dosen-kelas di service.
type ScoreHandler struct {
	scoreService service.ScoreService
}

// NewScoreHandler membuat instance handler nilai.
func NewScoreHandler(scoreService service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// SetupScoreRoutes mendaftarkan endpoint nilai. Hanya dosen yang membawa
// lecturerId di klaim yang bisa lolos gate penugasan.
func (h *ScoreHandler) SetupScoreRoutes(r *gin.Engine) {
	grp := r.Group("/api/v1/classes/:classId/scores")
	grp.Use(middleware.AuthMiddleware())
	{
		grp.GET("", h.ViewScores)
		grp.POST("", h.StoreScore)
		grp.PUT("", h.UpdateScore)
		grp.DELETE("", h.DeleteScore)
	}
}

// ViewScores mengembalikan nilai-nilai satu pemetaan dalam kelas.
// Query: mappingId (wajib), studentId (opsional).
func (h *ScoreHandler) ViewScores(ctx *gin.Context) {
	classID, ok := parseUUIDParam(ctx, "classId")
	if !ok {
		return
	}

	mappingID, err := uuid.Parse(ctx.Query("mappingId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Query mappingId wajib diisi dan harus UUID", err.Error(), nil))
		return
	}

	var studentID *uuid.UUID
	if raw := ctx.Query("studentId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Format studentId salah (harus UUID)", err.Error(), nil))
			return
		}
		studentID = &id
	}

	lecturerID := getContextUUID(ctx, "lecturerID")
	rows, err := h.scoreService.View(ctx.Request.Context(), lecturerID, classID, mappingID, studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK,
		utils.BuildResponseSuccess("Berhasil mengambil daftar nilai", rows))
}

// scorePayload adalah DTO store/update nilai.
// Pointer dipakai supaya field yang hilang bisa dilaporkan satu per satu
// oleh service, bukan ditolak borongan oleh binder.
type scorePayload struct {
	MappingID string   `json:"mappingId"`
	StudentID string   `json:"studentId"`
	RawScore  *float64 `json:"rawScore"`
}

func (h *ScoreHandler) bindScore(ctx *gin.Context) (mappingID, studentID uuid.UUID, rawScore *float64, ok bool) {
	var input scorePayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return uuid.Nil, uuid.Nil, nil, false
	}

	// ID yang kosong dibiarkan uuid.Nil: service yang melaporkan field hilang.
	if input.MappingID != "" {
		id, err := uuid.Parse(input.MappingID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Format mapping ID salah (harus UUID)", err.Error(), nil))
			return uuid.Nil, uuid.Nil, nil, false
		}
		mappingID = id
	}
	if input.StudentID != "" {
		id, err := uuid.Parse(input.StudentID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Format student ID salah (harus UUID)", err.Error(), nil))
			return uuid.Nil, uuid.Nil, nil, false
		}
		studentID = id
	}
	return mappingID, studentID, input.RawScore, true
}

// StoreScore menambahkan nilai (upsert; kunci (pemetaan, mahasiswa)).
func (h *ScoreHandler) StoreScore(ctx *gin.Context) {
	h.saveScore(ctx, service.ActionStore, http.StatusCreated)
}

// UpdateScore memperbarui nilai (kunci sama, id baris tidak berubah).
func (h *ScoreHandler) UpdateScore(ctx *gin.Context) {
	h.saveScore(ctx, service.ActionUpdate, http.StatusOK)
}

func (h *ScoreHandler) saveScore(ctx *gin.Context, action service.Action, successCode int) {
	classID, ok := parseUUIDParam(ctx, "classId")
	if !ok {
		return
	}
	mappingID, studentID, rawScore, ok := h.bindScore(ctx)
	if !ok {
		return
	}

	lecturerID := getContextUUID(ctx, "lecturerID")
	score, message, err := h.scoreService.Save(ctx.Request.Context(), action, lecturerID, classID, mappingID, studentID, rawScore)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(successCode, utils.BuildResponseSuccess(message, score))
}

// DeleteScore menghapus nilai berdasarkan (pemetaan, mahasiswa).
// Baris yang tidak ada bukan error, tapi pesannya tidak memuat kata sukses,
// sehingga boundary tetap menandainya unprocessable sesuai konvensi marker.
func (h *ScoreHandler) DeleteScore(ctx *gin.Context) {
	classID, ok := parseUUIDParam(ctx, "classId")
	if !ok {
		return
	}

	var input struct {
		MappingID string `json:"mappingId" binding:"required"`
		StudentID string `json:"studentId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	mappingID, err := uuid.Parse(input.MappingID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format mapping ID salah (harus UUID)", err.Error(), nil))
		return
	}
	studentID, err := uuid.Parse(input.StudentID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format student ID salah (harus UUID)", err.Error(), nil))
		return
	}

	lecturerID := getContextUUID(ctx, "lecturerID")
	message, err := h.scoreService.Delete(ctx.Request.Context(), lecturerID, classID, mappingID, studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	// Konvensi marker: pesan tanpa "berhasil" (baris memang sudah tidak ada)
	// disurface sebagai 422 oleh boundary, bukan 200.
	if !strings.Contains(message, "berhasil") {
		ctx.JSON(http.StatusUnprocessableEntity,
			utils.BuildResponseFailed(message, nil, nil))
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(message, nil))
}
