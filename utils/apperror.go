package utils

import "fmt"

// Taksonomi error yang boleh melintasi batas service → handler.
// Service tidak pernah membocorkan error mentah gorm/mongo; semua
// dibungkus ke salah satu tipe di bawah ini.

// ValidationError menandai payload yang tidak lengkap / id referensi yang
// tidak ditemukan. Fields berisi detail per-field bila ada.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError membuat ValidationError tanpa detail per-field.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// InvariantViolation menandai bobot yang tidak seimbang (invariant jumlah
// bobot pada Weight Mapping Engine). Pesannya selalu menyebut scope yang
// melanggar; bobot tidak pernah dinormalisasi diam-diam.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string { return e.Message }

// AuthorizationGapError menandai dosen yang tidak ditugaskan pada kelas.
// Dibedakan dari NotFound agar izin dan eksistensi tidak tercampur.
type AuthorizationGapError struct {
	Message string
}

func (e *AuthorizationGapError) Error() string { return e.Message }

// NotFoundError menandai record/pemetaan yang tidak ada.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// StorageFailure menandai kegagalan tak terduga di lapisan persistensi.
// Transaksi yang melingkupinya sudah di-rollback penuh sebelum error ini
// dikembalikan; ke caller hanya tampil pesan generik.
type StorageFailure struct {
	Message string
	Err     error
}

func (e *StorageFailure) Error() string { return e.Message }

func (e *StorageFailure) Unwrap() error { return e.Err }

// WrapStorage membungkus error persistensi mentah menjadi StorageFailure
// dengan pesan generik untuk caller.
func WrapStorage(err error) *StorageFailure {
	return &StorageFailure{
		Message: "Terjadi kesalahan pada penyimpanan data",
		Err:     fmt.Errorf("storage: %w", err),
	}
}
