package routes

import (
	"net/http"

	"outcome-tracking-backend/app/repository"
	"outcome-tracking-backend/app/service"
	"outcome-tracking-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler adalah struct pengelola request untuk fitur Autentikasi.
// Struct ini menyimpan dependency ke AuthService + UserRepository
// (untuk melengkapi klaim lecturerId/programId di token).
type AuthHandler struct {
	authService service.AuthService
	userRepo    repository.UserRepository
}

// NewAuthHandler adalah constructor untuk membuat instance handler baru.
func NewAuthHandler(authService service.AuthService, userRepo repository.UserRepository) *AuthHandler {
	return &AuthHandler{authService: authService, userRepo: userRepo}
}

// SetupAuthRoutes mengatur Peta URL (Routing) untuk autentikasi.
func (h *AuthHandler) SetupAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/login", h.Login)
	}
}

// Login menangani proses masuk user.
func (h *AuthHandler) Login(ctx *gin.Context) {
	// 1. Siapkan wadah input login.
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	// 2. Validasi input JSON.
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Input login tidak valid", err.Error(), nil))
		return
	}

	// 3. Panggil Service Login.
	user, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized,
			utils.BuildResponseFailed("Login gagal", err.Error(), nil))
		return
	}

	// 4. Lengkapi klaim: kalau user ini dosen, isi lecturerId + programId;
	//    kaprodi non-dosen tetap butuh programId dari data dosennya.
	lecturerID := uuid.Nil
	programID := uuid.Nil
	if lec, err := h.userRepo.FindLecturerByUserID(user.ID); err == nil {
		lecturerID = lec.ID
		programID = lec.ProgramID
	}

	// 5. Generate Token JWT.
	token, err := utils.GenerateToken(user.ID, lecturerID, programID, user.Role.Name)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError,
			utils.BuildResponseFailed("Gagal membuat token", err.Error(), nil))
		return
	}

	// 6. Siapkan data respons.
	data := map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"fullName": user.FullName,
			"role":     user.Role.Name,
		},
	}

	// 7. Kirim Respon Sukses 200 (OK).
	ctx.JSON(http.StatusOK,
		utils.BuildResponseSuccess("Login berhasil", data))
}
