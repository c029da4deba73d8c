package service

import (
	"context"
	"errors"

	"outcome-tracking-backend/app/model"
	"outcome-tracking-backend/app/repository"
	"outcome-tracking-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScoreService adalah Score Aggregator: menghitung dan menyimpan kontribusi
// terbobot satu nilai mentah melalui tepat satu pemetaan SubAssessment-CPMK,
// untuk satu mahasiswa, dengan gate penugasan dosen di depan setiap operasi.
//
// State machine per baris nilai: absent → recorded (store) → recorded
// (update, kunci sama) → absent (delete). Tidak ada state "terkunci".
type ScoreService interface {
	// View mengambil nilai-nilai satu pemetaan dalam satu kelas, opsional
	// difilter ke satu mahasiswa.
	View(ctx context.Context, lecturerID, classID, mappingID uuid.UUID, studentID *uuid.UUID) ([]model.StudentScore, error)

	// Save meng-upsert nilai satu mahasiswa pada satu pemetaan.
	// rawScore nil dianggap field hilang (bukan 0).
	Save(ctx context.Context, action Action, lecturerID, classID, mappingID, studentID uuid.UUID, rawScore *float64) (*model.StudentScore, string, error)

	// Delete menghapus nilai berdasarkan (pemetaan, mahasiswa). Baris yang
	// tidak ada bukan error: pesannya saja yang membedakan.
	Delete(ctx context.Context, lecturerID, classID, mappingID, studentID uuid.UUID) (string, error)
}

type scoreService struct {
	scoreRepo      repository.ScoreRepository
	assessmentRepo repository.AssessmentRepository
	classRepo      repository.ClassRepository
	curriculumRepo repository.CurriculumRepository
}

// NewScoreService membuat instance baru scoreService.
func NewScoreService(
	scoreRepo repository.ScoreRepository,
	assessmentRepo repository.AssessmentRepository,
	classRepo repository.ClassRepository,
	curriculumRepo repository.CurriculumRepository,
) ScoreService {
	return &scoreService{
		scoreRepo:      scoreRepo,
		assessmentRepo: assessmentRepo,
		classRepo:      classRepo,
		curriculumRepo: curriculumRepo,
	}
}

// ensureAssigned menjalankan gate penugasan dosen-kelas. Kegagalan di sini
// adalah AuthorizationGap, bukan not-found: resource-nya bisa saja ada tapi
// bukan milik caller.
func (s *scoreService) ensureAssigned(classID, lecturerID uuid.UUID) error {
	assigned, err := s.classRepo.IsAssigned(classID, lecturerID)
	if err != nil {
		return utils.WrapStorage(err)
	}
	if !assigned {
		return &utils.AuthorizationGapError{Message: "Anda tidak ditugaskan pada kelas ini"}
	}
	return nil
}

// loadMappingInClass memuat pemetaan dan memastikan butir induknya milik
// kelas yang diminta. Dua kegagalan dibedakan pesannya: pemetaan tidak ada
// sama sekali vs ada tapi bukan di kelas ini.
func (s *scoreService) loadMappingInClass(mappingID, classID uuid.UUID) (*model.SubAssessmentCPMK, error) {
	mapping, err := s.assessmentRepo.FindMappingByID(mappingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Message: "Pemetaan penilaian tidak ditemukan"}
		}
		return nil, utils.WrapStorage(err)
	}
	if mapping.SubAssessment.ClassID != classID {
		return nil, &utils.NotFoundError{Message: "Pemetaan tidak ditemukan pada kelas ini"}
	}
	return mapping, nil
}

// View mengambil daftar nilai satu pemetaan, joined identitas mahasiswa minimal.
func (s *scoreService) View(ctx context.Context, lecturerID, classID, mappingID uuid.UUID, studentID *uuid.UUID) ([]model.StudentScore, error) {
	if err := s.ensureAssigned(classID, lecturerID); err != nil {
		return nil, err
	}
	if _, err := s.loadMappingInClass(mappingID, classID); err != nil {
		return nil, err
	}

	rows, err := s.scoreRepo.FindByMapping(mappingID, studentID)
	if err != nil {
		return nil, utils.WrapStorage(err)
	}
	return rows, nil
}

// Save menjalankan alur store/update nilai:
// 1. validasi kelengkapan field, per-field
// 2. gate penugasan dosen-kelas
// 3. pemetaan harus ada DAN milik kelas ini
// 4. hitung nilai terbobot = round2(raw × bobot / 100), half-up
// 5. upsert berkunci (pemetaan, mahasiswa); insert id baru atau timpa di tempat
// 6. pesan membedakan "ditambahkan" vs "diperbarui" sesuai action yang diminta
func (s *scoreService) Save(ctx context.Context, action Action, lecturerID, classID, mappingID, studentID uuid.UUID, rawScore *float64) (*model.StudentScore, string, error) {
	// Step 1: field wajib, dilaporkan satu per satu
	missing := map[string]string{}
	if classID == uuid.Nil {
		missing["class_id"] = "wajib diisi"
	}
	if mappingID == uuid.Nil {
		missing["mapping_id"] = "wajib diisi"
	}
	if studentID == uuid.Nil {
		missing["student_id"] = "wajib diisi"
	}
	if rawScore == nil {
		missing["raw_score"] = "wajib diisi"
	}
	if len(missing) > 0 {
		return nil, "", &utils.ValidationError{Message: "Field wajib belum lengkap", Fields: missing}
	}
	// Nilai mentah tidak punya batas atas, hanya tidak boleh negatif
	if *rawScore < 0 {
		return nil, "", &utils.ValidationError{
			Message: "Nilai mentah tidak boleh negatif",
			Fields:  map[string]string{"raw_score": "harus >= 0"},
		}
	}

	// Step 2: gate penugasan
	if err := s.ensureAssigned(classID, lecturerID); err != nil {
		return nil, "", err
	}

	// Step 3: pemetaan milik kelas ini
	mapping, err := s.loadMappingInClass(mappingID, classID)
	if err != nil {
		return nil, "", err
	}

	student, err := s.curriculumRepo.FindStudentByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", &utils.NotFoundError{Message: "Mahasiswa tidak ditemukan"}
		}
		return nil, "", utils.WrapStorage(err)
	}

	// Step 4: kontribusi terbobot. Bobot pemetaan sudah divalidasi [0,100]
	// oleh Weight Mapping Engine saat dibuat; di sini tidak divalidasi ulang.
	raw := utils.Round2(*rawScore)
	weighted := utils.WeightedScore(raw, mapping.Bobot)

	// Step 5: upsert berkunci (pemetaan, mahasiswa)
	score, err := s.scoreRepo.FindByKey(mappingID, studentID)
	switch {
	case err == nil:
		score.RawScore = raw
		score.WeightedScore = weighted
	case errors.Is(err, gorm.ErrRecordNotFound):
		score = &model.StudentScore{
			ID:                  uuid.New(),
			SubAssessmentCPMKID: mappingID,
			StudentID:           studentID,
			RawScore:            raw,
			WeightedScore:       weighted,
		}
	default:
		return nil, "", utils.WrapStorage(err)
	}

	entry := model.NewScoreEntry(*score, classID, mapping.SubAssessmentID, mapping.CPMKID, student.NIM)
	if err := s.scoreRepo.Upsert(ctx, score, entry); err != nil {
		return nil, "", utils.WrapStorage(err)
	}

	// Step 6
	return score, savedMessage("Nilai", action), nil
}

// Delete menghapus nilai satu mahasiswa pada satu pemetaan, idempoten.
func (s *scoreService) Delete(ctx context.Context, lecturerID, classID, mappingID, studentID uuid.UUID) (string, error) {
	if err := s.ensureAssigned(classID, lecturerID); err != nil {
		return "", err
	}
	if _, err := s.loadMappingInClass(mappingID, classID); err != nil {
		return "", err
	}

	affected, err := s.scoreRepo.Delete(ctx, mappingID, studentID)
	if err != nil {
		return "", utils.WrapStorage(err)
	}
	if affected == 0 {
		// bukan error: tidak ada yang perlu dihapus
		return "Nilai sudah dihapus atau tidak ditemukan.", nil
	}
	return "Nilai berhasil dihapus.", nil
}
