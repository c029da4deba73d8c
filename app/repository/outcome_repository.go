package repository

import (
	"outcome-tracking-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutcomeRepository menangani CRUD taksonomi capaian: CPL dan CPMK.
// Semua query daftar menerima programScope eksplisit (nil = semua prodi);
// scope diturunkan sekali dari klaim caller di handler, tidak pernah dari
// state global.
type OutcomeRepository interface {
	CreateCPL(c *model.CPL) error
	UpdateCPL(c *model.CPL) error
	FindCPLByID(id uuid.UUID) (*model.CPL, error)
	FindCPLs(programScope *uuid.UUID) ([]model.CPL, error)
	DeleteCPL(id uuid.UUID) (int64, error)

	CreateCPMK(c *model.CPMK) error
	UpdateCPMK(c *model.CPMK) error
	FindCPMKByID(id uuid.UUID) (*model.CPMK, error)
	FindCPMKs(programScope *uuid.UUID) ([]model.CPMK, error)
	DeleteCPMK(id uuid.UUID) (int64, error)
}

type outcomeRepository struct {
	db *gorm.DB
}

// NewOutcomeRepository membuat instance baru outcomeRepository.
func NewOutcomeRepository(db *gorm.DB) OutcomeRepository {
	return &outcomeRepository{db}
}

func (r *outcomeRepository) CreateCPL(c *model.CPL) error {
	return r.db.Create(c).Error
}

func (r *outcomeRepository) UpdateCPL(c *model.CPL) error {
	return r.db.Save(c).Error
}

func (r *outcomeRepository) FindCPLByID(id uuid.UUID) (*model.CPL, error) {
	var c model.CPL
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *outcomeRepository) FindCPLs(programScope *uuid.UUID) ([]model.CPL, error) {
	q := r.db.Order("code ASC")
	if programScope != nil {
		q = q.Where("program_id = ?", *programScope)
	}
	var rows []model.CPL
	err := q.Find(&rows).Error
	return rows, err
}

// DeleteCPL menghapus CPL; pemetaan Course-CPL miliknya ikut cascade di storage.
func (r *outcomeRepository) DeleteCPL(id uuid.UUID) (int64, error) {
	res := r.db.Where("id = ?", id).Delete(&model.CPL{})
	return res.RowsAffected, res.Error
}

func (r *outcomeRepository) CreateCPMK(c *model.CPMK) error {
	return r.db.Create(c).Error
}

func (r *outcomeRepository) UpdateCPMK(c *model.CPMK) error {
	return r.db.Save(c).Error
}

func (r *outcomeRepository) FindCPMKByID(id uuid.UUID) (*model.CPMK, error) {
	var c model.CPMK
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *outcomeRepository) FindCPMKs(programScope *uuid.UUID) ([]model.CPMK, error) {
	q := r.db.Order("code ASC")
	if programScope != nil {
		q = q.Where("program_id = ?", *programScope)
	}
	var rows []model.CPMK
	err := q.Find(&rows).Error
	return rows, err
}

func (r *outcomeRepository) DeleteCPMK(id uuid.UUID) (int64, error) {
	res := r.db.Where("id = ?", id).Delete(&model.CPMK{})
	return res.RowsAffected, res.Error
}
