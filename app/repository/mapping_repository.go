package repository

import (
	"outcome-tracking-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CPMKCPLKey mengidentifikasi satu baris pemetaan CPMK-CPL di dalam satu course.
type CPMKCPLKey struct {
	CPMKID uuid.UUID
	CPLID  uuid.UUID
}

// MappingRepository menangani persistensi dua relasi berbobot level kurikulum:
// Course-CPL dan CPMK-CPL. Operasi replace dijalankan delete-lalu-insert
// dalam satu transaksi; gagal di tengah berarti baris lama tetap utuh.
type MappingRepository interface {
	FindCourseCPLs(courseID uuid.UUID) ([]model.CourseCPL, error)
	FindCourseCPLByID(id uuid.UUID) (*model.CourseCPL, error)

	// ReplaceCourseCPLs mengganti seluruh pemetaan CPL milik satu course
	// dengan set yang diusulkan, atomik.
	ReplaceCourseCPLs(courseID uuid.UUID, rows []model.CourseCPL) error

	// DeleteCourseCPL menghapus satu baris pemetaan berdasarkan ID.
	// Mengembalikan jumlah baris terhapus (0 = tidak ditemukan).
	DeleteCourseCPL(id uuid.UUID) (int64, error)

	FindCPMKCPLs(courseID uuid.UUID) ([]model.CPMKCPL, error)
	ReplaceCPMKCPLs(courseID uuid.UUID, rows []model.CPMKCPL) error

	// DeleteCPMKCPLPairs menghapus tepat baris-baris (cpmk, cpl) yang diminta
	// pada satu course, tanpa validasi ulang bobot sisa.
	DeleteCPMKCPLPairs(courseID uuid.UUID, pairs []CPMKCPLKey) (int64, error)
}

type mappingRepository struct {
	db *gorm.DB
}

// NewMappingRepository membuat instance baru mappingRepository.
func NewMappingRepository(db *gorm.DB) MappingRepository {
	return &mappingRepository{db}
}

// FindCourseCPLs mengambil seluruh pemetaan CPL satu course, beserta data CPL-nya.
func (r *mappingRepository) FindCourseCPLs(courseID uuid.UUID) ([]model.CourseCPL, error) {
	var rows []model.CourseCPL
	err := r.db.
		Preload("CPL").
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// FindCourseCPLByID mengambil satu baris pemetaan Course-CPL.
func (r *mappingRepository) FindCourseCPLByID(id uuid.UUID) (*model.CourseCPL, error) {
	var row model.CourseCPL
	if err := r.db.First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ReplaceCourseCPLs: hapus semua baris lama course tsb, lalu bulk-insert set baru.
// Keduanya dalam satu transaksi; rollback penuh bila salah satu gagal.
func (r *mappingRepository) ReplaceCourseCPLs(courseID uuid.UUID, rows []model.CourseCPL) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).
			Delete(&model.CourseCPL{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// DeleteCourseCPL menghapus satu baris Course-CPL berdasarkan ID.
// Tidak ada pengecekan turunan ke layer CPMK-CPL (perilaku yang diterima:
// invariant turunan baru dicek lagi pada store/update berikutnya).
func (r *mappingRepository) DeleteCourseCPL(id uuid.UUID) (int64, error) {
	res := r.db.Where("id = ?", id).Delete(&model.CourseCPL{})
	return res.RowsAffected, res.Error
}

// FindCPMKCPLs mengambil seluruh pemetaan CPMK-CPL satu course.
func (r *mappingRepository) FindCPMKCPLs(courseID uuid.UUID) ([]model.CPMKCPL, error) {
	var rows []model.CPMKCPL
	err := r.db.
		Preload("CPMK").
		Preload("CPL").
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ReplaceCPMKCPLs mengganti seluruh pemetaan CPMK-CPL milik satu course, atomik.
func (r *mappingRepository) ReplaceCPMKCPLs(courseID uuid.UUID, rows []model.CPMKCPL) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).
			Delete(&model.CPMKCPL{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// DeleteCPMKCPLPairs menghapus baris-baris (cpmk, cpl) yang diminta saja.
func (r *mappingRepository) DeleteCPMKCPLPairs(courseID uuid.UUID, pairs []CPMKCPLKey) (int64, error) {
	var total int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range pairs {
			res := tx.Where("course_id = ? AND cpmk_id = ? AND cpl_id = ?",
				courseID, p.CPMKID, p.CPLID).
				Delete(&model.CPMKCPL{})
			if res.Error != nil {
				return res.Error
			}
			total += res.RowsAffected
		}
		return nil
	})
	return total, err
}
