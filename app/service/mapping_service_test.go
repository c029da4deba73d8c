package service

import (
	"errors"
	"fmt"
	"testing"

	"outcome-tracking-backend/app/model"
	"outcome-tracking-backend/app/repository"
	"outcome-tracking-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ---------------------------------------------------------------------------
// Fake repositories (in-memory, satu per interface)
// ---------------------------------------------------------------------------

type fakeCurriculumRepo struct {
	courses     map[uuid.UUID]*model.Course
	classes     map[uuid.UUID]*model.Class
	assessments map[uuid.UUID]*model.Assessment
	students    map[uuid.UUID]*model.Student
	cplProgram  map[uuid.UUID]uuid.UUID // cplID -> programID pemiliknya
	cpmks       map[uuid.UUID]bool
}

func newFakeCurriculumRepo() *fakeCurriculumRepo {
	return &fakeCurriculumRepo{
		courses:     map[uuid.UUID]*model.Course{},
		classes:     map[uuid.UUID]*model.Class{},
		assessments: map[uuid.UUID]*model.Assessment{},
		students:    map[uuid.UUID]*model.Student{},
		cplProgram:  map[uuid.UUID]uuid.UUID{},
		cpmks:       map[uuid.UUID]bool{},
	}
}

func (f *fakeCurriculumRepo) FindCourseByID(id uuid.UUID) (*model.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCurriculumRepo) FindClassByID(id uuid.UUID) (*model.Class, error) {
	if k, ok := f.classes[id]; ok {
		return k, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCurriculumRepo) FindAssessmentByID(id uuid.UUID) (*model.Assessment, error) {
	if a, ok := f.assessments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCurriculumRepo) FindStudentByID(id uuid.UUID) (*model.Student, error) {
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCurriculumRepo) CountCPLsInProgram(ids []uuid.UUID, programID uuid.UUID) (int64, error) {
	var count int64
	for _, id := range ids {
		if f.cplProgram[id] == programID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCurriculumRepo) CountCPMKs(ids []uuid.UUID) (int64, error) {
	var count int64
	for _, id := range ids {
		if f.cpmks[id] {
			count++
		}
	}
	return count, nil
}

type fakeMappingRepo struct {
	courseCPLs map[uuid.UUID][]model.CourseCPL // keyed by courseID
	cpmkCPLs   map[uuid.UUID][]model.CPMKCPL

	replaceErr error // bila di-set, semua operasi replace gagal
}

func newFakeMappingRepo() *fakeMappingRepo {
	return &fakeMappingRepo{
		courseCPLs: map[uuid.UUID][]model.CourseCPL{},
		cpmkCPLs:   map[uuid.UUID][]model.CPMKCPL{},
	}
}

func (f *fakeMappingRepo) FindCourseCPLs(courseID uuid.UUID) ([]model.CourseCPL, error) {
	return f.courseCPLs[courseID], nil
}

func (f *fakeMappingRepo) FindCourseCPLByID(id uuid.UUID) (*model.CourseCPL, error) {
	for _, rows := range f.courseCPLs {
		for _, row := range rows {
			if row.ID == id {
				return &row, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMappingRepo) ReplaceCourseCPLs(courseID uuid.UUID, rows []model.CourseCPL) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.courseCPLs[courseID] = rows
	return nil
}

func (f *fakeMappingRepo) DeleteCourseCPL(id uuid.UUID) (int64, error) {
	for courseID, rows := range f.courseCPLs {
		for i, row := range rows {
			if row.ID == id {
				f.courseCPLs[courseID] = append(rows[:i], rows[i+1:]...)
				return 1, nil
			}
		}
	}
	return 0, nil
}

func (f *fakeMappingRepo) FindCPMKCPLs(courseID uuid.UUID) ([]model.CPMKCPL, error) {
	return f.cpmkCPLs[courseID], nil
}

func (f *fakeMappingRepo) ReplaceCPMKCPLs(courseID uuid.UUID, rows []model.CPMKCPL) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.cpmkCPLs[courseID] = rows
	return nil
}

func (f *fakeMappingRepo) DeleteCPMKCPLPairs(courseID uuid.UUID, pairs []repository.CPMKCPLKey) (int64, error) {
	var total int64
	for _, p := range pairs {
		rows := f.cpmkCPLs[courseID]
		kept := rows[:0]
		for _, row := range rows {
			if row.CPMKID == p.CPMKID && row.CPLID == p.CPLID {
				total++
				continue
			}
			kept = append(kept, row)
		}
		f.cpmkCPLs[courseID] = kept
	}
	return total, nil
}

// ---------------------------------------------------------------------------
// Setup helpers
// ---------------------------------------------------------------------------

type mappingFixture struct {
	svc       MappingService
	mapRepo   *fakeMappingRepo
	currRepo  *fakeCurriculumRepo
	programID uuid.UUID
	courseID  uuid.UUID
}

func newMappingFixture() *mappingFixture {
	currRepo := newFakeCurriculumRepo()
	mapRepo := newFakeMappingRepo()

	programID := uuid.New()
	courseID := uuid.New()
	currRepo.courses[courseID] = &model.Course{ID: courseID, ProgramID: programID, Code: "IF2110", Name: "Algoritma"}

	return &mappingFixture{
		svc:       NewMappingService(mapRepo, currRepo),
		mapRepo:   mapRepo,
		currRepo:  currRepo,
		programID: programID,
		courseID:  courseID,
	}
}

func (fx *mappingFixture) addCPL() uuid.UUID {
	id := uuid.New()
	fx.currRepo.cplProgram[id] = fx.programID
	return id
}

func (fx *mappingFixture) addCPMK() uuid.UUID {
	id := uuid.New()
	fx.currRepo.cpmks[id] = true
	return id
}

// ---------------------------------------------------------------------------
// Course-CPL
// ---------------------------------------------------------------------------

func TestSaveCourseCPL_TotalHarus100(t *testing.T) {
	fx := newMappingFixture()
	cplA, cplB := fx.addCPL(), fx.addCPL()

	_, _, err := fx.svc.SaveCourseCPL(ActionStore, fx.courseID, []CourseCPLInput{
		{CPLID: cplA, Bobot: 60},
		{CPLID: cplB, Bobot: 30},
	})

	var inv *utils.InvariantViolation
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "Total bobot CPL harus 100%", inv.Message)
	assert.Empty(t, fx.mapRepo.courseCPLs[fx.courseID], "pemetaan tidak boleh tersimpan sebagian")
}

func TestSaveCourseCPL_PecahanDesimalEksak(t *testing.T) {
	fx := newMappingFixture()
	cplA, cplB, cplC := fx.addCPL(), fx.addCPL(), fx.addCPL()

	// 33.33 + 33.33 + 33.34 = 100.00 harus lolos; perbandingan dilakukan
	// dalam satuan seperseratus, bukan penjumlahan float
	saved, msg, err := fx.svc.SaveCourseCPL(ActionStore, fx.courseID, []CourseCPLInput{
		{CPLID: cplA, Bobot: 33.33},
		{CPLID: cplB, Bobot: 33.33},
		{CPLID: cplC, Bobot: 33.34},
	})

	require.NoError(t, err)
	assert.Len(t, saved, 3)
	assert.Equal(t, "Pemetaan CPL berhasil ditambahkan.", msg)
}

func TestSaveCourseCPL_ReplaceSeluruhSet(t *testing.T) {
	fx := newMappingFixture()
	cplA, cplB, cplC := fx.addCPL(), fx.addCPL(), fx.addCPL()

	_, _, err := fx.svc.SaveCourseCPL(ActionStore, fx.courseID, []CourseCPLInput{
		{CPLID: cplA, Bobot: 50},
		{CPLID: cplB, Bobot: 50},
	})
	require.NoError(t, err)

	// update mengganti set lama seluruhnya, bukan merge
	saved, msg, err := fx.svc.SaveCourseCPL(ActionUpdate, fx.courseID, []CourseCPLInput{
		{CPLID: cplC, Bobot: 100},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, cplC, saved[0].CPLID)
	assert.Equal(t, "Pemetaan CPL berhasil diperbarui.", msg)
}

func TestSaveCourseCPL_Validasi(t *testing.T) {
	fx := newMappingFixture()
	cplA := fx.addCPL()
	cplAsing := uuid.New() // tidak terdaftar pada prodi mana pun

	tests := []struct {
		name  string
		items []CourseCPLInput
	}{
		{name: "daftar kosong", items: nil},
		{name: "CPL duplikat", items: []CourseCPLInput{
			{CPLID: cplA, Bobot: 50}, {CPLID: cplA, Bobot: 50},
		}},
		{name: "bobot negatif", items: []CourseCPLInput{
			{CPLID: cplA, Bobot: -10},
		}},
		{name: "bobot di atas 100", items: []CourseCPLInput{
			{CPLID: cplA, Bobot: 150},
		}},
		{name: "CPL prodi lain", items: []CourseCPLInput{
			{CPLID: cplAsing, Bobot: 100},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := fx.svc.SaveCourseCPL(ActionStore, fx.courseID, tt.items)
			var ve *utils.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestSaveCourseCPL_CourseTidakDitemukan(t *testing.T) {
	fx := newMappingFixture()
	cplA := fx.addCPL()

	_, _, err := fx.svc.SaveCourseCPL(ActionStore, uuid.New(), []CourseCPLInput{
		{CPLID: cplA, Bobot: 100},
	})

	var nf *utils.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSaveCourseCPL_GagalStorageTidakBocor(t *testing.T) {
	fx := newMappingFixture()
	cplA := fx.addCPL()
	fx.mapRepo.replaceErr = errors.New("connection reset")

	_, _, err := fx.svc.SaveCourseCPL(ActionStore, fx.courseID, []CourseCPLInput{
		{CPLID: cplA, Bobot: 100},
	})

	var sf *utils.StorageFailure
	require.ErrorAs(t, err, &sf)
	assert.Equal(t, "Terjadi kesalahan pada penyimpanan data", sf.Message)
	assert.Empty(t, fx.mapRepo.courseCPLs[fx.courseID])
}

func TestDeleteCourseCPL(t *testing.T) {
	fx := newMappingFixture()
	cplA := fx.addCPL()

	saved, _, err := fx.svc.SaveCourseCPL(ActionStore, fx.courseID, []CourseCPLInput{
		{CPLID: cplA, Bobot: 100},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	msg, err := fx.svc.DeleteCourseCPL(saved[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Pemetaan CPL berhasil dihapus.", msg)

	// menghapus id yang sudah tidak ada adalah hard failure, bukan no-op
	_, err = fx.svc.DeleteCourseCPL(saved[0].ID)
	var nf *utils.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

// ---------------------------------------------------------------------------
// CPMK-CPL
// ---------------------------------------------------------------------------

// seedCourseCPL menanam pemetaan induk Course-CPL langsung ke fake repo.
func (fx *mappingFixture) seedCourseCPL(weights map[uuid.UUID]float64, order []uuid.UUID) {
	rows := make([]model.CourseCPL, 0, len(weights))
	for _, cplID := range order {
		rows = append(rows, model.CourseCPL{
			ID: uuid.New(), CourseID: fx.courseID, CPLID: cplID, Bobot: weights[cplID],
		})
	}
	fx.mapRepo.courseCPLs[fx.courseID] = rows
}

func TestSaveCPMKCPL_TotalPerCPLHarusSamaDenganInduk(t *testing.T) {
	fx := newMappingFixture()
	cplA, cplB := fx.addCPL(), fx.addCPL()
	cpmk1, cpmk2, cpmk3 := fx.addCPMK(), fx.addCPMK(), fx.addCPMK()
	fx.seedCourseCPL(map[uuid.UUID]float64{cplA: 60, cplB: 40}, []uuid.UUID{cplA, cplB})

	saved, msg, err := fx.svc.SaveCPMKCPL(ActionStore, fx.courseID, []CPMKCPLInput{
		{CPMKID: cpmk1, CPLID: cplA, Bobot: 35},
		{CPMKID: cpmk2, CPLID: cplA, Bobot: 25},
		{CPMKID: cpmk3, CPLID: cplB, Bobot: 40},
	})

	require.NoError(t, err)
	assert.Len(t, saved, 3)
	assert.Equal(t, "Pemetaan CPMK-CPL berhasil ditambahkan.", msg)
}

func TestSaveCPMKCPL_KelompokTidakSeimbang(t *testing.T) {
	fx := newMappingFixture()
	cplA, cplB := fx.addCPL(), fx.addCPL()
	cpmk1, cpmk2 := fx.addCPMK(), fx.addCPMK()
	fx.seedCourseCPL(map[uuid.UUID]float64{cplA: 60, cplB: 40}, []uuid.UUID{cplA, cplB})

	// kedua kelompok salah; yang dilaporkan harus CPL yang muncul pertama
	// pada daftar usulan (cplB), bukan urutan lain
	_, _, err := fx.svc.SaveCPMKCPL(ActionStore, fx.courseID, []CPMKCPLInput{
		{CPMKID: cpmk1, CPLID: cplB, Bobot: 10},
		{CPMKID: cpmk2, CPLID: cplA, Bobot: 10},
	})

	var inv *utils.InvariantViolation
	require.ErrorAs(t, err, &inv)
	assert.Equal(t,
		fmt.Sprintf("Total bobot CPMK untuk CPL %s tidak sama dengan bobot CPL yang ditetapkan.", cplB),
		inv.Message)
	assert.Empty(t, fx.mapRepo.cpmkCPLs[fx.courseID], "pemetaan tidak boleh tersimpan sebagian")
}

func TestSaveCPMKCPL_CPLTanpaBobotInduk(t *testing.T) {
	fx := newMappingFixture()
	cplA, cplTanpaInduk := fx.addCPL(), fx.addCPL()
	cpmk1 := fx.addCPMK()
	fx.seedCourseCPL(map[uuid.UUID]float64{cplA: 100}, []uuid.UUID{cplA})

	_, _, err := fx.svc.SaveCPMKCPL(ActionStore, fx.courseID, []CPMKCPLInput{
		{CPMKID: cpmk1, CPLID: cplTanpaInduk, Bobot: 50},
	})

	var ve *utils.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSaveCPMKCPL_PasanganDuplikat(t *testing.T) {
	fx := newMappingFixture()
	cplA := fx.addCPL()
	cpmk1 := fx.addCPMK()
	fx.seedCourseCPL(map[uuid.UUID]float64{cplA: 100}, []uuid.UUID{cplA})

	_, _, err := fx.svc.SaveCPMKCPL(ActionStore, fx.courseID, []CPMKCPLInput{
		{CPMKID: cpmk1, CPLID: cplA, Bobot: 50},
		{CPMKID: cpmk1, CPLID: cplA, Bobot: 50},
	})

	var ve *utils.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDeleteCPMKCPL_HapusPasanganTanpaValidasiUlang(t *testing.T) {
	fx := newMappingFixture()
	cplA := fx.addCPL()
	cpmk1, cpmk2 := fx.addCPMK(), fx.addCPMK()
	fx.seedCourseCPL(map[uuid.UUID]float64{cplA: 100}, []uuid.UUID{cplA})

	_, _, err := fx.svc.SaveCPMKCPL(ActionStore, fx.courseID, []CPMKCPLInput{
		{CPMKID: cpmk1, CPLID: cplA, Bobot: 60},
		{CPMKID: cpmk2, CPLID: cplA, Bobot: 40},
	})
	require.NoError(t, err)

	// menghapus satu pasangan membuat sisa set melanggar invariant; itu
	// diterima dan baru dicek lagi pada store/update berikutnya
	msg, err := fx.svc.DeleteCPMKCPL(fx.courseID, []repository.CPMKCPLKey{
		{CPMKID: cpmk1, CPLID: cplA},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pemetaan CPMK-CPL berhasil dihapus.", msg)

	sisa, err := fx.svc.ViewCPMKCPL(fx.courseID)
	require.NoError(t, err)
	require.Len(t, sisa, 1)
	assert.Equal(t, cpmk2, sisa[0].CPMKID)

	// pasangan yang sudah tidak ada
	_, err = fx.svc.DeleteCPMKCPL(fx.courseID, []repository.CPMKCPLKey{
		{CPMKID: cpmk1, CPLID: cplA},
	})
	var nf *utils.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
