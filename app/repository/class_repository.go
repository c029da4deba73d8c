package repository

import (
	"outcome-tracking-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassRepository menangani penugasan dosen pengampu dan gate penugasan.
type ClassRepository interface {
	// IsAssigned mengecek apakah ada baris penugasan yang mengaitkan dosen
	// dengan kelas, apa pun label perannya (Lead / Co-1 / Co-2).
	// Satu-satunya predikat yang dipakai Score Aggregator sebagai gate.
	IsAssigned(classID uuid.UUID, lecturerID uuid.UUID) (bool, error)

	AssignLecturer(cl *model.ClassLecturer) error
	UnassignLecturer(classID uuid.UUID, lecturerID uuid.UUID) (int64, error)
	FindAssignments(classID uuid.UUID) ([]model.ClassLecturer, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository membuat instance baru classRepository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db}
}

// IsAssigned mengecek keberadaan baris penugasan (class_id, lecturer_id).
func (r *classRepository) IsAssigned(classID uuid.UUID, lecturerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.
		Model(&model.ClassLecturer{}).
		Where("class_id = ? AND lecturer_id = ?", classID, lecturerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AssignLecturer menambahkan penugasan dosen pada kelas.
func (r *classRepository) AssignLecturer(cl *model.ClassLecturer) error {
	return r.db.Create(cl).Error
}

// UnassignLecturer mencabut penugasan dosen dari kelas.
func (r *classRepository) UnassignLecturer(classID uuid.UUID, lecturerID uuid.UUID) (int64, error) {
	res := r.db.Where("class_id = ? AND lecturer_id = ?", classID, lecturerID).
		Delete(&model.ClassLecturer{})
	return res.RowsAffected, res.Error
}

// FindAssignments mengambil daftar dosen pengampu satu kelas.
func (r *classRepository) FindAssignments(classID uuid.UUID) ([]model.ClassLecturer, error) {
	var rows []model.ClassLecturer
	err := r.db.
		Preload("Lecturer").
		Preload("Lecturer.User").
		Where("class_id = ?", classID).
		Find(&rows).Error
	return rows, err
}
