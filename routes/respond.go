package routes

import (
	"errors"
	"net/http"

	"outcome-tracking-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError memetakan taksonomi error service ke status HTTP + APIResponse.
// Pesan invariant/validasi diteruskan apa adanya ke caller; StorageFailure
// hanya tampil sebagai pesan generik.
func respondError(ctx *gin.Context, err error) {
	var (
		valErr     *utils.ValidationError
		invErr     *utils.InvariantViolation
		authErr    *utils.AuthorizationGapError
		nfErr      *utils.NotFoundError
		storageErr *utils.StorageFailure
	)

	switch {
	case errors.As(err, &invErr):
		ctx.JSON(http.StatusUnprocessableEntity,
			utils.BuildResponseFailed(invErr.Message, nil, nil))
	case errors.As(err, &valErr):
		var detail interface{}
		if len(valErr.Fields) > 0 {
			detail = valErr.Fields
		}
		ctx.JSON(http.StatusUnprocessableEntity,
			utils.BuildResponseFailed(valErr.Message, detail, nil))
	case errors.As(err, &authErr):
		ctx.JSON(http.StatusForbidden,
			utils.BuildResponseFailed(authErr.Message, "not_assigned", nil))
	case errors.As(err, &nfErr):
		ctx.JSON(http.StatusNotFound,
			utils.BuildResponseFailed(nfErr.Message, "not_found", nil))
	case errors.As(err, &storageErr):
		ctx.JSON(http.StatusInternalServerError,
			utils.BuildResponseFailed(storageErr.Message, "storage_failure", nil))
	default:
		ctx.JSON(http.StatusInternalServerError,
			utils.BuildResponseFailed("Terjadi kesalahan", err.Error(), nil))
	}
}

// parseUUIDParam membaca path param sebagai UUID atau mengirim 400.
func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format "+name+" salah (harus UUID)", err.Error(), nil))
		return uuid.Nil, false
	}
	return id, true
}

// requireRole memastikan role caller termasuk salah satu yang diizinkan.
func requireRole(ctx *gin.Context, roles ...string) bool {
	role := ctx.GetString("role")
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	ctx.JSON(http.StatusForbidden,
		utils.BuildResponseFailed("Anda tidak memiliki akses ke fitur ini", "forbidden", nil))
	return false
}

// getContextUUID mengambil UUID dari gin.Context key tertentu (diisi middleware).
func getContextUUID(ctx *gin.Context, key string) uuid.UUID {
	if v, ok := ctx.Get(key); ok {
		if id, ok2 := v.(uuid.UUID); ok2 {
			return id
		}
	}
	return uuid.Nil
}

// programScopeFromClaims menurunkan filter prodi eksplisit dari klaim:
// admin → nil (semua prodi), selain itu → prodi milik caller.
func programScopeFromClaims(ctx *gin.Context) *uuid.UUID {
	if ctx.GetString("role") == "admin" {
		return nil
	}
	id := getContextUUID(ctx, "programID")
	if id == uuid.Nil {
		return nil
	}
	return &id
}
