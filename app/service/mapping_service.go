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

// Action membedakan store (tambah) dan update (perbarui) pada operasi
// replace-all. Semantiknya sama persis; yang berbeda hanya pesan sukses.
type Action string

const (
	ActionStore  Action = "store"
	ActionUpdate Action = "update"
)

// CourseCPLInput adalah satu usulan baris pemetaan CPL → course.
type CourseCPLInput struct {
	CPLID uuid.UUID
	Bobot float64
}

// CPMKCPLInput adalah satu usulan baris pemetaan CPMK → CPL dalam satu course.
type CPMKCPLInput struct {
	CPMKID uuid.UUID
	CPLID  uuid.UUID
	Bobot  float64
}

// MappingService adalah Weight Mapping Engine: memvalidasi dan menyimpan
// dua relasi berbobot level kurikulum dengan semantik replace-all
// (set lama diganti seluruhnya, bukan di-merge).
type MappingService interface {
	ViewCourseCPL(courseID uuid.UUID) ([]model.CourseCPL, error)

	// SaveCourseCPL memvalidasi lalu mengganti seluruh pemetaan CPL satu course.
	// Total bobot usulan harus tepat 100.00 (perbandingan eksak 2 desimal).
	SaveCourseCPL(action Action, courseID uuid.UUID, items []CourseCPLInput) ([]model.CourseCPL, string, error)

	// DeleteCourseCPL menghapus satu baris pemetaan; tidak ada pengecekan
	// turunan ke layer CPMK-CPL setelahnya.
	DeleteCourseCPL(mappingID uuid.UUID) (string, error)

	ViewCPMKCPL(courseID uuid.UUID) ([]model.CPMKCPL, error)

	// SaveCPMKCPL memvalidasi lalu mengganti seluruh pemetaan CPMK-CPL satu
	// course. Per CPL yang muncul di usulan, total bobot CPMK-nya harus sama
	// dengan bobot CPL tsb pada pemetaan Course-CPL course yang sama.
	SaveCPMKCPL(action Action, courseID uuid.UUID, items []CPMKCPLInput) ([]model.CPMKCPL, string, error)

	// DeleteCPMKCPL menghapus tepat pasangan (cpmk, cpl) yang diminta.
	// Set sisa boleh melanggar invariant sampai store/update berikutnya.
	DeleteCPMKCPL(courseID uuid.UUID, pairs []repository.CPMKCPLKey) (string, error)
}

type mappingService struct {
	mappingRepo    repository.MappingRepository
	curriculumRepo repository.CurriculumRepository
}

// NewMappingService membuat instance baru mappingService.
func NewMappingService(mappingRepo repository.MappingRepository, curriculumRepo repository.CurriculumRepository) MappingService {
	return &mappingService{
		mappingRepo:    mappingRepo,
		curriculumRepo: curriculumRepo,
	}
}

// savedMessage menyusun pesan sukses sesuai action yang diminta caller.
func savedMessage(subject string, action Action) string {
	if action == ActionUpdate {
		return subject + " berhasil diperbarui."
	}
	return subject + " berhasil ditambahkan."
}

// findCourse mengambil course atau menerjemahkan error repo ke taksonomi error.
func (s *mappingService) findCourse(courseID uuid.UUID) (*model.Course, error) {
	course, err := s.curriculumRepo.FindCourseByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Message: "Mata kuliah tidak ditemukan"}
		}
		return nil, utils.WrapStorage(err)
	}
	return course, nil
}

// ViewCourseCPL mengambil pemetaan CPL satu course.
func (s *mappingService) ViewCourseCPL(courseID uuid.UUID) ([]model.CourseCPL, error) {
	if _, err := s.findCourse(courseID); err != nil {
		return nil, err
	}
	rows, err := s.mappingRepo.FindCourseCPLs(courseID)
	if err != nil {
		return nil, utils.WrapStorage(err)
	}
	return rows, nil
}

// SaveCourseCPL: validasi closed-set lalu replace-all atomik.
func (s *mappingService) SaveCourseCPL(action Action, courseID uuid.UUID, items []CourseCPLInput) ([]model.CourseCPL, string, error) {
	if len(items) == 0 {
		return nil, "", utils.NewValidationError("Daftar pemetaan CPL tidak boleh kosong")
	}

	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, "", err
	}

	// 1. CPL dalam daftar harus unik dan bobotnya dalam rentang [0,100]
	seen := make(map[uuid.UUID]bool, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if seen[it.CPLID] {
			return nil, "", utils.NewValidationError(
				fmt.Sprintf("CPL %s muncul lebih dari satu kali dalam daftar", it.CPLID))
		}
		seen[it.CPLID] = true
		ids = append(ids, it.CPLID)

		if it.Bobot < 0 || it.Bobot > 100 {
			return nil, "", utils.NewValidationError(
				fmt.Sprintf("Bobot CPL %s harus berada di antara 0 dan 100", it.CPLID))
		}
	}

	// 2. Semua CPL harus ada dan milik prodi dari course ini
	count, err := s.curriculumRepo.CountCPLsInProgram(ids, course.ProgramID)
	if err != nil {
		return nil, "", utils.WrapStorage(err)
	}
	if count != int64(len(ids)) {
		return nil, "", utils.NewValidationError("Ada CPL yang tidak ditemukan pada prodi mata kuliah ini")
	}

	// 3. Total bobot usulan harus tepat 100.00, dibandingkan dalam satuan
	//    seperseratus supaya eksak, bukan perbandingan float
	var totalCents int64
	for _, it := range items {
		totalCents += utils.ToCents(it.Bobot)
	}
	if totalCents != 10000 {
		return nil, "", &utils.InvariantViolation{Message: "Total bobot CPL harus 100%"}
	}

	// 4. Replace-all dalam satu transaksi
	rows := make([]model.CourseCPL, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.CourseCPL{
			ID:       uuid.New(),
			CourseID: courseID,
			CPLID:    it.CPLID,
			Bobot:    utils.Round2(it.Bobot),
		})
	}
	if err := s.mappingRepo.ReplaceCourseCPLs(courseID, rows); err != nil {
		return nil, "", utils.WrapStorage(err)
	}

	saved, err := s.mappingRepo.FindCourseCPLs(courseID)
	if err != nil {
		return nil, "", utils.WrapStorage(err)
	}
	return saved, savedMessage("Pemetaan CPL", action), nil
}

// DeleteCourseCPL menghapus satu baris pemetaan Course-CPL berdasarkan ID.
func (s *mappingService) DeleteCourseCPL(mappingID uuid.UUID) (string, error) {
	affected, err := s.mappingRepo.DeleteCourseCPL(mappingID)
	if err != nil {
		return "", utils.WrapStorage(err)
	}
	if affected == 0 {
		return "", &utils.NotFoundError{Message: "Pemetaan Course-CPL tidak ditemukan"}
	}
	return "Pemetaan CPL berhasil dihapus.", nil
}

// ViewCPMKCPL mengambil pemetaan CPMK-CPL satu course.
func (s *mappingService) ViewCPMKCPL(courseID uuid.UUID) ([]model.CPMKCPL, error) {
	if _, err := s.findCourse(courseID); err != nil {
		return nil, err
	}
	rows, err := s.mappingRepo.FindCPMKCPLs(courseID)
	if err != nil {
		return nil, utils.WrapStorage(err)
	}
	return rows, nil
}

// SaveCPMKCPL: validasi per-kelompok CPL terhadap bobot induknya, lalu
// replace-all atomik.
func (s *mappingService) SaveCPMKCPL(action Action, courseID uuid.UUID, items []CPMKCPLInput) ([]model.CPMKCPL, string, error) {
	if len(items) == 0 {
		return nil, "", utils.NewValidationError("Daftar pemetaan CPMK-CPL tidak boleh kosong")
	}

	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, "", err
	}

	// 1. Pasangan (cpmk, cpl) harus unik, bobot dalam rentang [0,100]
	type pairKey struct{ cpmk, cpl uuid.UUID }
	seenPair := make(map[pairKey]bool, len(items))
	cpmkSet := make(map[uuid.UUID]bool)
	cplSet := make(map[uuid.UUID]bool)
	for _, it := range items {
		k := pairKey{it.CPMKID, it.CPLID}
		if seenPair[k] {
			return nil, "", utils.NewValidationError(
				fmt.Sprintf("Pasangan CPMK %s - CPL %s muncul lebih dari satu kali", it.CPMKID, it.CPLID))
		}
		seenPair[k] = true
		cpmkSet[it.CPMKID] = true
		cplSet[it.CPLID] = true

		if it.Bobot < 0 || it.Bobot > 100 {
			return nil, "", utils.NewValidationError(
				fmt.Sprintf("Bobot CPMK %s harus berada di antara 0 dan 100", it.CPMKID))
		}
	}

	// 2. Seluruh CPMK dan CPL yang dirujuk harus ada (CPL milik prodi course)
	cpmkIDs := make([]uuid.UUID, 0, len(cpmkSet))
	for id := range cpmkSet {
		cpmkIDs = append(cpmkIDs, id)
	}
	cplIDs := make([]uuid.UUID, 0, len(cplSet))
	for id := range cplSet {
		cplIDs = append(cplIDs, id)
	}

	cpmkCount, err := s.curriculumRepo.CountCPMKs(cpmkIDs)
	if err != nil {
		return nil, "", utils.WrapStorage(err)
	}
	if cpmkCount != int64(len(cpmkIDs)) {
		return nil, "", utils.NewValidationError("Ada CPMK yang tidak ditemukan")
	}

	cplCount, err := s.curriculumRepo.CountCPLsInProgram(cplIDs, course.ProgramID)
	if err != nil {
		return nil, "", utils.WrapStorage(err)
	}
	if cplCount != int64(len(cplIDs)) {
		return nil, "", utils.NewValidationError("Ada CPL yang tidak ditemukan pada prodi mata kuliah ini")
	}

	// 3. Bobot induk: ambil pemetaan Course-CPL course ini
	parents, err := s.mappingRepo.FindCourseCPLs(courseID)
	if err != nil {
		return nil, "", utils.WrapStorage(err)
	}
	parentCents := make(map[uuid.UUID]int64, len(parents))
	for _, p := range parents {
		parentCents[p.CPLID] = utils.ToCents(p.Bobot)
	}

	// 4. Kelompokkan usulan per CPL (urutan kemunculan pertama dipertahankan
	//    supaya CPL gagal pertama yang dilaporkan deterministik)
	groupCents := make(map[uuid.UUID]int64)
	order := make([]uuid.UUID, 0, len(cplSet))
	for _, it := range items {
		if _, ok := groupCents[it.CPLID]; !ok {
			order = append(order, it.CPLID)
		}
		groupCents[it.CPLID] += utils.ToCents(it.Bobot)
	}

	for _, cplID := range order {
		parent, ok := parentCents[cplID]
		if !ok {
			return nil, "", utils.NewValidationError(
				fmt.Sprintf("CPL %s belum memiliki bobot pada pemetaan Course-CPL mata kuliah ini", cplID))
		}
		if groupCents[cplID] != parent {
			return nil, "", &utils.InvariantViolation{
				Message: fmt.Sprintf("Total bobot CPMK untuk CPL %s tidak sama dengan bobot CPL yang ditetapkan.", cplID),
			}
		}
	}

	// 5. Replace-all dalam satu transaksi
	rows := make([]model.CPMKCPL, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.CPMKCPL{
			ID:       uuid.New(),
			CourseID: courseID,
			CPMKID:   it.CPMKID,
			CPLID:    it.CPLID,
			Bobot:    utils.Round2(it.Bobot),
		})
	}
	if err := s.mappingRepo.ReplaceCPMKCPLs(courseID, rows); err != nil {
		return nil, "", utils.WrapStorage(err)
	}

	saved, err := s.mappingRepo.FindCPMKCPLs(courseID)
	if err != nil {
		return nil, "", utils.WrapStorage(err)
	}
	return saved, savedMessage("Pemetaan CPMK-CPL", action), nil
}

// DeleteCPMKCPL menghapus pasangan-pasangan yang diminta pada satu course.
// Tidak ada validasi ulang terhadap invariant bobot setelah penghapusan.
func (s *mappingService) DeleteCPMKCPL(courseID uuid.UUID, pairs []repository.CPMKCPLKey) (string, error) {
	if len(pairs) == 0 {
		return "", utils.NewValidationError("Daftar pasangan CPMK-CPL yang akan dihapus tidak boleh kosong")
	}
	if _, err := s.findCourse(courseID); err != nil {
		return "", err
	}

	affected, err := s.mappingRepo.DeleteCPMKCPLPairs(courseID, pairs)
	if err != nil {
		return "", utils.WrapStorage(err)
	}
	if affected == 0 {
		return "", &utils.NotFoundError{Message: "Pemetaan CPMK-CPL tidak ditemukan"}
	}
	return "Pemetaan CPMK-CPL berhasil dihapus.", nil
}
