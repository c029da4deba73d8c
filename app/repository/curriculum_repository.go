package repository

import (
	"outcome-tracking-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CurriculumRepository adalah permukaan Entity Store yang dikonsumsi
// kedua engine: cek eksistensi dan pengambilan entitas referensi.
// Tidak ada cache; setiap pembacaan selalu query ulang ke database.
type CurriculumRepository interface {
	FindCourseByID(id uuid.UUID) (*model.Course, error)
	FindClassByID(id uuid.UUID) (*model.Class, error)
	FindAssessmentByID(id uuid.UUID) (*model.Assessment, error)
	FindStudentByID(id uuid.UUID) (*model.Student, error)

	// CountCPLsInProgram menghitung berapa dari ids yang merupakan CPL valid
	// milik programID. Dipakai untuk menolak CPL prodi lain pada pemetaan.
	CountCPLsInProgram(ids []uuid.UUID, programID uuid.UUID) (int64, error)

	// CountCPMKs menghitung berapa dari ids yang merupakan CPMK valid.
	CountCPMKs(ids []uuid.UUID) (int64, error)
}

type curriculumRepository struct {
	db *gorm.DB
}

// NewCurriculumRepository membuat instance baru curriculumRepository.
func NewCurriculumRepository(db *gorm.DB) CurriculumRepository {
	return &curriculumRepository{db}
}

// FindCourseByID mengambil satu mata kuliah berdasarkan ID.
func (r *curriculumRepository) FindCourseByID(id uuid.UUID) (*model.Course, error) {
	var c model.Course
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindClassByID mengambil satu kelas berdasarkan ID.
func (r *curriculumRepository) FindClassByID(id uuid.UUID) (*model.Class, error) {
	var k model.Class
	if err := r.db.First(&k, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &k, nil
}

// FindAssessmentByID mengambil satu kategori penilaian berdasarkan ID.
func (r *curriculumRepository) FindAssessmentByID(id uuid.UUID) (*model.Assessment, error) {
	var a model.Assessment
	if err := r.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindStudentByID mengambil satu mahasiswa berdasarkan ID.
func (r *curriculumRepository) FindStudentByID(id uuid.UUID) (*model.Student, error) {
	var s model.Student
	if err := r.db.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CountCPLsInProgram menghitung CPL dari daftar ids yang dimiliki prodi tertentu.
func (r *curriculumRepository) CountCPLsInProgram(ids []uuid.UUID, programID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.CPL{}).
		Where("id IN ? AND program_id = ?", ids, programID).
		Count(&count).Error
	return count, err
}

// CountCPMKs menghitung CPMK valid dari daftar ids.
func (r *curriculumRepository) CountCPMKs(ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.CPMK{}).
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}
