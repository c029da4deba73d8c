package service

import (
	"errors"
	"fmt"

	"outcome-tracking-backend/app/model"
	"outcome-tracking-backend/app/repository"
	"outcome-tracking-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubCPMKInput adalah satu usulan pemetaan butir penilaian → CPMK.
// Bobot nil berarti 0: default-fill yang disengaja, bukan penolakan.
type SubCPMKInput struct {
	CPMKID uuid.UUID
	Bobot  *float64
}

// SubAssessmentInput adalah payload store/update butir penilaian beserta
// pemetaan CPMK-nya (dikelola sebagai satu kesatuan, sesuai bentuk call-nya).
type SubAssessmentInput struct {
	ID           uuid.UUID // uuid.Nil saat store
	AssessmentID uuid.UUID
	ClassID      uuid.UUID
	Name         string
	CPMKs        []SubCPMKInput
}

// AssessmentService mengelola kategori penilaian dan butir penilaian.
// Layer SubAssessment-CPMK tidak punya invariant jumlah bobot; tiap baris
// berdiri sendiri.
type AssessmentService interface {
	CreateAssessment(classID uuid.UUID, name string) (*model.Assessment, string, error)
	ListAssessments(classID uuid.UUID) ([]model.Assessment, error)
	DeleteAssessment(id uuid.UUID) (string, error)

	// SaveSubAssessment membuat/memperbarui butir penilaian dan mengganti
	// seluruh pemetaan CPMK-nya dalam satu transaksi.
	SaveSubAssessment(action Action, input SubAssessmentInput) (*model.SubAssessment, string, error)

	// DeleteSubAssessment menghapus butir; pemetaan CPMK ikut cascade.
	DeleteSubAssessment(id uuid.UUID) (string, error)
}

type assessmentService struct {
	assessmentRepo repository.AssessmentRepository
	curriculumRepo repository.CurriculumRepository
}

// NewAssessmentService membuat instance baru assessmentService.
func NewAssessmentService(assessmentRepo repository.AssessmentRepository, curriculumRepo repository.CurriculumRepository) AssessmentService {
	return &assessmentService{
		assessmentRepo: assessmentRepo,
		curriculumRepo: curriculumRepo,
	}
}

// CreateAssessment membuat kategori penilaian baru pada satu kelas.
func (s *assessmentService) CreateAssessment(classID uuid.UUID, name string) (*model.Assessment, string, error) {
	if name == "" {
		return nil, "", utils.NewValidationError("Nama kategori penilaian wajib diisi")
	}
	if _, err := s.curriculumRepo.FindClassByID(classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", &utils.NotFoundError{Message: "Kelas tidak ditemukan"}
		}
		return nil, "", utils.WrapStorage(err)
	}

	a := &model.Assessment{
		ID:      uuid.New(),
		ClassID: classID,
		Name:    name,
	}
	if err := s.assessmentRepo.CreateAssessment(a); err != nil {
		return nil, "", utils.WrapStorage(err)
	}
	return a, "Kategori penilaian berhasil ditambahkan.", nil
}

// ListAssessments mengambil kategori penilaian satu kelas beserta butirnya.
func (s *assessmentService) ListAssessments(classID uuid.UUID) ([]model.Assessment, error) {
	if _, err := s.curriculumRepo.FindClassByID(classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Message: "Kelas tidak ditemukan"}
		}
		return nil, utils.WrapStorage(err)
	}
	rows, err := s.assessmentRepo.FindAssessmentsByClass(classID)
	if err != nil {
		return nil, utils.WrapStorage(err)
	}
	return rows, nil
}

// DeleteAssessment menghapus kategori penilaian berdasarkan ID.
func (s *assessmentService) DeleteAssessment(id uuid.UUID) (string, error) {
	affected, err := s.assessmentRepo.DeleteAssessment(id)
	if err != nil {
		return "", utils.WrapStorage(err)
	}
	if affected == 0 {
		return "", &utils.NotFoundError{Message: "Kategori penilaian tidak ditemukan"}
	}
	return "Kategori penilaian berhasil dihapus.", nil
}

// SaveSubAssessment memvalidasi lalu menyimpan butir penilaian + pemetaan CPMK.
func (s *assessmentService) SaveSubAssessment(action Action, input SubAssessmentInput) (*model.SubAssessment, string, error) {
	if input.Name == "" {
		return nil, "", utils.NewValidationError("Nama butir penilaian wajib diisi")
	}

	// 1. Kelas dan kategori induk harus ada, dan kategori milik kelas tsb
	if _, err := s.curriculumRepo.FindClassByID(input.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", &utils.NotFoundError{Message: "Kelas tidak ditemukan"}
		}
		return nil, "", utils.WrapStorage(err)
	}
	parent, err := s.curriculumRepo.FindAssessmentByID(input.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", &utils.NotFoundError{Message: "Kategori penilaian tidak ditemukan"}
		}
		return nil, "", utils.WrapStorage(err)
	}
	if parent.ClassID != input.ClassID {
		return nil, "", utils.NewValidationError("Kategori penilaian bukan milik kelas ini")
	}

	// 2. CPMK dalam daftar harus unik dan seluruhnya ada
	seen := make(map[uuid.UUID]bool, len(input.CPMKs))
	ids := make([]uuid.UUID, 0, len(input.CPMKs))
	for _, c := range input.CPMKs {
		if seen[c.CPMKID] {
			return nil, "", utils.NewValidationError(
				fmt.Sprintf("CPMK %s muncul lebih dari satu kali dalam daftar", c.CPMKID))
		}
		seen[c.CPMKID] = true
		ids = append(ids, c.CPMKID)
	}
	if len(ids) > 0 {
		count, err := s.curriculumRepo.CountCPMKs(ids)
		if err != nil {
			return nil, "", utils.WrapStorage(err)
		}
		if count != int64(len(ids)) {
			return nil, "", utils.NewValidationError("Ada CPMK yang tidak ditemukan")
		}
	}

	// 3. Saat update, butirnya harus sudah ada
	sub := &model.SubAssessment{
		ID:           input.ID,
		AssessmentID: input.AssessmentID,
		ClassID:      input.ClassID,
		Name:         input.Name,
	}
	if action == ActionUpdate {
		existing, err := s.assessmentRepo.FindSubAssessmentByID(input.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", &utils.NotFoundError{Message: "Butir penilaian tidak ditemukan"}
			}
			return nil, "", utils.WrapStorage(err)
		}
		sub.CreatedAt = existing.CreatedAt
	} else {
		sub.ID = uuid.New()
	}

	// 4. Bobot yang tidak dikirim diisi 0 secara eksplisit (bukan ditolak)
	rows := make([]model.SubAssessmentCPMK, 0, len(input.CPMKs))
	for _, c := range input.CPMKs {
		bobot := 0.0
		if c.Bobot != nil {
			if *c.Bobot < 0 || *c.Bobot > 100 {
				return nil, "", utils.NewValidationError(
					fmt.Sprintf("Bobot CPMK %s harus berada di antara 0 dan 100", c.CPMKID))
			}
			bobot = utils.Round2(*c.Bobot)
		}
		rows = append(rows, model.SubAssessmentCPMK{
			ID:     uuid.New(),
			CPMKID: c.CPMKID,
			Bobot:  bobot,
		})
	}

	// 5. Simpan butir + ganti pemetaan dalam satu transaksi
	if err := s.assessmentRepo.SaveSubAssessment(sub, rows); err != nil {
		return nil, "", utils.WrapStorage(err)
	}

	saved, err := s.assessmentRepo.FindSubAssessmentByID(sub.ID)
	if err != nil {
		return nil, "", utils.WrapStorage(err)
	}
	return saved, savedMessage("Butir penilaian", action), nil
}

// DeleteSubAssessment menghapus satu butir penilaian berdasarkan ID.
func (s *assessmentService) DeleteSubAssessment(id uuid.UUID) (string, error) {
	affected, err := s.assessmentRepo.DeleteSubAssessment(id)
	if err != nil {
		return "", utils.WrapStorage(err)
	}
	if affected == 0 {
		return "", &utils.NotFoundError{Message: "Butir penilaian tidak ditemukan"}
	}
	return "Butir penilaian berhasil dihapus.", nil
}
