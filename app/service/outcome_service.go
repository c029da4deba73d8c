package service

import (
	"errors"

	"outcome-tracking-backend/app/model"
	"outcome-tracking-backend/app/repository"
	"outcome-tracking-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutcomeInput adalah payload create/update untuk CPL maupun CPMK.
type OutcomeInput struct {
	ProgramID   uuid.UUID
	Code        string
	Name        string
	Description string
}

// OutcomeService mengelola taksonomi capaian (CPL dan CPMK).
// programScope pada operasi daftar diturunkan dari klaim caller di handler:
// nil untuk admin universitas, prodi sendiri untuk kaprodi/dosen.
type OutcomeService interface {
	CreateCPL(input OutcomeInput) (*model.CPL, string, error)
	UpdateCPL(id uuid.UUID, input OutcomeInput) (*model.CPL, string, error)
	ListCPLs(programScope *uuid.UUID) ([]model.CPL, error)
	DeleteCPL(id uuid.UUID) (string, error)

	CreateCPMK(input OutcomeInput) (*model.CPMK, string, error)
	UpdateCPMK(id uuid.UUID, input OutcomeInput) (*model.CPMK, string, error)
	ListCPMKs(programScope *uuid.UUID) ([]model.CPMK, error)
	DeleteCPMK(id uuid.UUID) (string, error)
}

type outcomeService struct {
	outcomeRepo repository.OutcomeRepository
}

// NewOutcomeService membuat instance baru outcomeService.
func NewOutcomeService(outcomeRepo repository.OutcomeRepository) OutcomeService {
	return &outcomeService{outcomeRepo: outcomeRepo}
}

func validateOutcomeInput(input OutcomeInput) error {
	fields := map[string]string{}
	if input.ProgramID == uuid.Nil {
		fields["program_id"] = "wajib diisi"
	}
	if input.Code == "" {
		fields["code"] = "wajib diisi"
	}
	if input.Name == "" {
		fields["name"] = "wajib diisi"
	}
	if len(fields) > 0 {
		return &utils.ValidationError{Message: "Field wajib belum lengkap", Fields: fields}
	}
	return nil
}

// CreateCPL membuat CPL baru; kode harus unik per prodi (dijaga index unik).
func (s *outcomeService) CreateCPL(input OutcomeInput) (*model.CPL, string, error) {
	if err := validateOutcomeInput(input); err != nil {
		return nil, "", err
	}
	c := &model.CPL{
		ID:          uuid.New(),
		ProgramID:   input.ProgramID,
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.outcomeRepo.CreateCPL(c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", utils.NewValidationError("Kode CPL sudah dipakai pada prodi ini")
		}
		return nil, "", utils.WrapStorage(err)
	}
	return c, "CPL berhasil ditambahkan.", nil
}

// UpdateCPL memperbarui CPL yang sudah ada.
func (s *outcomeService) UpdateCPL(id uuid.UUID, input OutcomeInput) (*model.CPL, string, error) {
	if err := validateOutcomeInput(input); err != nil {
		return nil, "", err
	}
	c, err := s.outcomeRepo.FindCPLByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", &utils.NotFoundError{Message: "CPL tidak ditemukan"}
		}
		return nil, "", utils.WrapStorage(err)
	}
	c.Code = input.Code
	c.Name = input.Name
	c.Description = input.Description
	if err := s.outcomeRepo.UpdateCPL(c); err != nil {
		return nil, "", utils.WrapStorage(err)
	}
	return c, "CPL berhasil diperbarui.", nil
}

// ListCPLs mengambil daftar CPL sesuai scope prodi caller.
func (s *outcomeService) ListCPLs(programScope *uuid.UUID) ([]model.CPL, error) {
	rows, err := s.outcomeRepo.FindCPLs(programScope)
	if err != nil {
		return nil, utils.WrapStorage(err)
	}
	return rows, nil
}

// DeleteCPL menghapus CPL; pemetaan Course-CPL miliknya ikut terhapus.
func (s *outcomeService) DeleteCPL(id uuid.UUID) (string, error) {
	affected, err := s.outcomeRepo.DeleteCPL(id)
	if err != nil {
		return "", utils.WrapStorage(err)
	}
	if affected == 0 {
		return "", &utils.NotFoundError{Message: "CPL tidak ditemukan"}
	}
	return "CPL berhasil dihapus.", nil
}

// CreateCPMK membuat CPMK baru. CPMK bisa dibuat lepas, belum terpetakan
// ke pemetaan mana pun.
func (s *outcomeService) CreateCPMK(input OutcomeInput) (*model.CPMK, string, error) {
	if err := validateOutcomeInput(input); err != nil {
		return nil, "", err
	}
	c := &model.CPMK{
		ID:          uuid.New(),
		ProgramID:   input.ProgramID,
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.outcomeRepo.CreateCPMK(c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", utils.NewValidationError("Kode CPMK sudah dipakai pada prodi ini")
		}
		return nil, "", utils.WrapStorage(err)
	}
	return c, "CPMK berhasil ditambahkan.", nil
}

// UpdateCPMK memperbarui CPMK yang sudah ada.
func (s *outcomeService) UpdateCPMK(id uuid.UUID, input OutcomeInput) (*model.CPMK, string, error) {
	if err := validateOutcomeInput(input); err != nil {
		return nil, "", err
	}
	c, err := s.outcomeRepo.FindCPMKByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", &utils.NotFoundError{Message: "CPMK tidak ditemukan"}
		}
		return nil, "", utils.WrapStorage(err)
	}
	c.Code = input.Code
	c.Name = input.Name
	c.Description = input.Description
	if err := s.outcomeRepo.UpdateCPMK(c); err != nil {
		return nil, "", utils.WrapStorage(err)
	}
	return c, "CPMK berhasil diperbarui.", nil
}

// ListCPMKs mengambil daftar CPMK sesuai scope prodi caller.
func (s *outcomeService) ListCPMKs(programScope *uuid.UUID) ([]model.CPMK, error) {
	rows, err := s.outcomeRepo.FindCPMKs(programScope)
	if err != nil {
		return nil, utils.WrapStorage(err)
	}
	return rows, nil
}

// DeleteCPMK menghapus CPMK berdasarkan ID.
func (s *outcomeService) DeleteCPMK(id uuid.UUID) (string, error) {
	affected, err := s.outcomeRepo.DeleteCPMK(id)
	if err != nil {
		return "", utils.WrapStorage(err)
	}
	if affected == 0 {
		return "", &utils.NotFoundError{Message: "CPMK tidak ditemukan"}
	}
	return "CPMK berhasil dihapus.", nil
}
