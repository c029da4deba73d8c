package repository

import (
	"outcome-tracking-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssessmentRepository menangani kategori penilaian, butir penilaian,
// dan pemetaan butir → CPMK (SubAssessmentCPMK).
type AssessmentRepository interface {
	CreateAssessment(a *model.Assessment) error
	FindAssessmentsByClass(classID uuid.UUID) ([]model.Assessment, error)
	DeleteAssessment(id uuid.UUID) (int64, error)

	FindSubAssessmentByID(id uuid.UUID) (*model.SubAssessment, error)

	// SaveSubAssessment menyimpan (insert/update) satu butir penilaian dan
	// MENGGANTI seluruh baris pemetaan CPMK-nya dengan set yang diusulkan,
	// semuanya dalam satu transaksi.
	SaveSubAssessment(sub *model.SubAssessment, cpmks []model.SubAssessmentCPMK) error

	// DeleteSubAssessment menghapus butir penilaian; baris pemetaan CPMK ikut
	// terhapus lewat FK cascade di storage, bukan divalidasi ulang di sini.
	DeleteSubAssessment(id uuid.UUID) (int64, error)

	// FindMappingByID mengambil satu pemetaan SubAssessment-CPMK berikut
	// butir induknya (untuk cek kepemilikan kelas di Score Aggregator).
	FindMappingByID(id uuid.UUID) (*model.SubAssessmentCPMK, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository membuat instance baru assessmentRepository.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db}
}

// CreateAssessment menyimpan kategori penilaian baru.
func (r *assessmentRepository) CreateAssessment(a *model.Assessment) error {
	return r.db.Create(a).Error
}

// FindAssessmentsByClass mengambil kategori penilaian satu kelas
// beserta butir dan pemetaan CPMK-nya.
func (r *assessmentRepository) FindAssessmentsByClass(classID uuid.UUID) ([]model.Assessment, error) {
	var rows []model.Assessment
	err := r.db.
		Preload("SubAssessments").
		Preload("SubAssessments.CPMKs").
		Preload("SubAssessments.CPMKs.CPMK").
		Where("class_id = ?", classID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// DeleteAssessment menghapus satu kategori penilaian (butir ikut cascade).
func (r *assessmentRepository) DeleteAssessment(id uuid.UUID) (int64, error) {
	res := r.db.Where("id = ?", id).Delete(&model.Assessment{})
	return res.RowsAffected, res.Error
}

// FindSubAssessmentByID mengambil satu butir penilaian beserta pemetaan CPMK-nya.
func (r *assessmentRepository) FindSubAssessmentByID(id uuid.UUID) (*model.SubAssessment, error) {
	var sub model.SubAssessment
	err := r.db.
		Preload("CPMKs").
		Preload("CPMKs.CPMK").
		First(&sub, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// SaveSubAssessment: simpan butir, hapus pemetaan CPMK lama, insert set baru.
// Satu transaksi; gagal di tengah → rollback penuh, baris lama utuh.
func (r *assessmentRepository) SaveSubAssessment(sub *model.SubAssessment, cpmks []model.SubAssessmentCPMK) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(sub).Error; err != nil {
			return err
		}
		if err := tx.Where("sub_assessment_id = ?", sub.ID).
			Delete(&model.SubAssessmentCPMK{}).Error; err != nil {
			return err
		}
		if len(cpmks) == 0 {
			return nil
		}
		for i := range cpmks {
			cpmks[i].SubAssessmentID = sub.ID
		}
		return tx.Create(&cpmks).Error
	})
}

// DeleteSubAssessment menghapus butir penilaian berdasarkan ID.
func (r *assessmentRepository) DeleteSubAssessment(id uuid.UUID) (int64, error) {
	res := r.db.Where("id = ?", id).Delete(&model.SubAssessment{})
	return res.RowsAffected, res.Error
}

// FindMappingByID mengambil pemetaan SubAssessment-CPMK + butir induknya.
func (r *assessmentRepository) FindMappingByID(id uuid.UUID) (*model.SubAssessmentCPMK, error) {
	var m model.SubAssessmentCPMK
	err := r.db.
		Preload("SubAssessment").
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
