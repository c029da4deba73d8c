package service

import (
	"context"
	"errors"
	"testing"

	"outcome-tracking-backend/app/model"
	"outcome-tracking-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ---------------------------------------------------------------------------
// Fake repositories
// ---------------------------------------------------------------------------

type fakeAssessmentRepo struct {
	assessments map[uuid.UUID]*model.Assessment
	subs        map[uuid.UUID]*model.SubAssessment
	mappings    map[uuid.UUID]*model.SubAssessmentCPMK
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{
		assessments: map[uuid.UUID]*model.Assessment{},
		subs:        map[uuid.UUID]*model.SubAssessment{},
		mappings:    map[uuid.UUID]*model.SubAssessmentCPMK{},
	}
}

func (f *fakeAssessmentRepo) CreateAssessment(a *model.Assessment) error {
	f.assessments[a.ID] = a
	return nil
}

func (f *fakeAssessmentRepo) FindAssessmentsByClass(classID uuid.UUID) ([]model.Assessment, error) {
	var rows []model.Assessment
	for _, a := range f.assessments {
		if a.ClassID == classID {
			rows = append(rows, *a)
		}
	}
	return rows, nil
}

func (f *fakeAssessmentRepo) DeleteAssessment(id uuid.UUID) (int64, error) {
	if _, ok := f.assessments[id]; !ok {
		return 0, nil
	}
	delete(f.assessments, id)
	return 1, nil
}

func (f *fakeAssessmentRepo) FindSubAssessmentByID(id uuid.UUID) (*model.SubAssessment, error) {
	if sub, ok := f.subs[id]; ok {
		cp := *sub
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssessmentRepo) SaveSubAssessment(sub *model.SubAssessment, cpmks []model.SubAssessmentCPMK) error {
	// ganti seluruh pemetaan CPMK butir ini dengan set baru
	for id, m := range f.mappings {
		if m.SubAssessmentID == sub.ID {
			delete(f.mappings, id)
		}
	}
	sub.CPMKs = nil
	for i := range cpmks {
		cpmks[i].SubAssessmentID = sub.ID
		row := cpmks[i]
		f.mappings[row.ID] = &row
		sub.CPMKs = append(sub.CPMKs, row)
	}
	f.subs[sub.ID] = sub
	return nil
}

func (f *fakeAssessmentRepo) DeleteSubAssessment(id uuid.UUID) (int64, error) {
	if _, ok := f.subs[id]; !ok {
		return 0, nil
	}
	delete(f.subs, id)
	for mid, m := range f.mappings {
		if m.SubAssessmentID == id {
			delete(f.mappings, mid)
		}
	}
	return 1, nil
}

func (f *fakeAssessmentRepo) FindMappingByID(id uuid.UUID) (*model.SubAssessmentCPMK, error) {
	if m, ok := f.mappings[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeClassRepo struct {
	assigned map[uuid.UUID]map[uuid.UUID]bool // classID -> lecturerID -> ada
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{assigned: map[uuid.UUID]map[uuid.UUID]bool{}}
}

func (f *fakeClassRepo) assign(classID, lecturerID uuid.UUID) {
	if f.assigned[classID] == nil {
		f.assigned[classID] = map[uuid.UUID]bool{}
	}
	f.assigned[classID][lecturerID] = true
}

func (f *fakeClassRepo) IsAssigned(classID, lecturerID uuid.UUID) (bool, error) {
	return f.assigned[classID][lecturerID], nil
}

func (f *fakeClassRepo) AssignLecturer(cl *model.ClassLecturer) error {
	f.assign(cl.ClassID, cl.LecturerID)
	return nil
}

func (f *fakeClassRepo) UnassignLecturer(classID, lecturerID uuid.UUID) (int64, error) {
	if f.assigned[classID][lecturerID] {
		delete(f.assigned[classID], lecturerID)
		return 1, nil
	}
	return 0, nil
}

func (f *fakeClassRepo) FindAssignments(classID uuid.UUID) ([]model.ClassLecturer, error) {
	return nil, nil
}

type scoreKey struct {
	mappingID uuid.UUID
	studentID uuid.UUID
}

type fakeScoreRepo struct {
	pg    map[scoreKey]*model.StudentScore
	mongo map[scoreKey]model.ScoreEntry

	upsertErr error // bila di-set, Upsert gagal tanpa mengubah state
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{
		pg:    map[scoreKey]*model.StudentScore{},
		mongo: map[scoreKey]model.ScoreEntry{},
	}
}

func (f *fakeScoreRepo) FindByMapping(mappingID uuid.UUID, studentID *uuid.UUID) ([]model.StudentScore, error) {
	var rows []model.StudentScore
	for k, s := range f.pg {
		if k.mappingID != mappingID {
			continue
		}
		if studentID != nil && k.studentID != *studentID {
			continue
		}
		rows = append(rows, *s)
	}
	return rows, nil
}

func (f *fakeScoreRepo) FindByKey(mappingID, studentID uuid.UUID) (*model.StudentScore, error) {
	if s, ok := f.pg[scoreKey{mappingID, studentID}]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeScoreRepo) Upsert(ctx context.Context, score *model.StudentScore, entry model.ScoreEntry) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	k := scoreKey{score.SubAssessmentCPMKID, score.StudentID}
	f.pg[k] = score
	f.mongo[k] = entry
	return nil
}

func (f *fakeScoreRepo) Delete(ctx context.Context, mappingID, studentID uuid.UUID) (int64, error) {
	k := scoreKey{mappingID, studentID}
	if _, ok := f.pg[k]; !ok {
		return 0, nil
	}
	delete(f.pg, k)
	delete(f.mongo, k)
	return 1, nil
}

// ---------------------------------------------------------------------------
// Setup
// ---------------------------------------------------------------------------

type scoreFixture struct {
	svc        ScoreService
	scoreRepo  *fakeScoreRepo
	classRepo  *fakeClassRepo
	lecturerID uuid.UUID
	classID    uuid.UUID
	mappingID  uuid.UUID
	studentID  uuid.UUID
}

// newScoreFixture menyiapkan satu kelas dengan satu dosen ditugaskan, satu
// pemetaan butir-CPMK berbobot tertentu, dan satu mahasiswa.
func newScoreFixture(t *testing.T, bobot float64) *scoreFixture {
	t.Helper()

	currRepo := newFakeCurriculumRepo()
	assessRepo := newFakeAssessmentRepo()
	classRepo := newFakeClassRepo()
	scoreRepo := newFakeScoreRepo()

	classID := uuid.New()
	lecturerID := uuid.New()
	classRepo.assign(classID, lecturerID)

	subID := uuid.New()
	mappingID := uuid.New()
	assessRepo.mappings[mappingID] = &model.SubAssessmentCPMK{
		ID:              mappingID,
		SubAssessmentID: subID,
		SubAssessment:   model.SubAssessment{ID: subID, ClassID: classID, Name: "Quiz 1"},
		CPMKID:          uuid.New(),
		Bobot:           bobot,
	}

	studentID := uuid.New()
	currRepo.students[studentID] = &model.Student{ID: studentID, NIM: "13522001", FullName: "Budi"}

	return &scoreFixture{
		svc:        NewScoreService(scoreRepo, assessRepo, classRepo, currRepo),
		scoreRepo:  scoreRepo,
		classRepo:  classRepo,
		lecturerID: lecturerID,
		classID:    classID,
		mappingID:  mappingID,
		studentID:  studentID,
	}
}

func ptr(v float64) *float64 { return &v }

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestScoreSave_HitungNilaiTerbobot(t *testing.T) {
	fx := newScoreFixture(t, 10)
	ctx := context.Background()

	score, msg, err := fx.svc.Save(ctx, ActionStore, fx.lecturerID, fx.classID, fx.mappingID, fx.studentID, ptr(85))

	require.NoError(t, err)
	assert.Equal(t, 85.0, score.RawScore)
	assert.Equal(t, 8.50, score.WeightedScore)
	assert.Equal(t, "Nilai berhasil ditambahkan.", msg)

	// dokumen cermin ikut terisi dengan identitas mahasiswa
	entry := fx.scoreRepo.mongo[scoreKey{fx.mappingID, fx.studentID}]
	assert.Equal(t, "13522001", entry.NIM)
	assert.Equal(t, 8.50, entry.WeightedScore)
}

func TestScoreSave_UpsertBerkunciSama(t *testing.T) {
	fx := newScoreFixture(t, 50)
	ctx := context.Background()

	first, _, err := fx.svc.Save(ctx, ActionStore, fx.lecturerID, fx.classID, fx.mappingID, fx.studentID, ptr(70))
	require.NoError(t, err)

	second, msg, err := fx.svc.Save(ctx, ActionUpdate, fx.lecturerID, fx.classID, fx.mappingID, fx.studentID, ptr(90))
	require.NoError(t, err)

	// baris yang sama ditimpa, bukan baris baru
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 45.0, second.WeightedScore)
	assert.Equal(t, "Nilai berhasil diperbarui.", msg)
	assert.Len(t, fx.scoreRepo.pg, 1)
}

func TestScoreSave_FieldWajib(t *testing.T) {
	fx := newScoreFixture(t, 10)
	ctx := context.Background()

	_, _, err := fx.svc.Save(ctx, ActionStore, fx.lecturerID, uuid.Nil, uuid.Nil, uuid.Nil, nil)

	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "wajib diisi", ve.Fields["class_id"])
	assert.Equal(t, "wajib diisi", ve.Fields["mapping_id"])
	assert.Equal(t, "wajib diisi", ve.Fields["student_id"])
	assert.Equal(t, "wajib diisi", ve.Fields["raw_score"])
}

func TestScoreSave_NilaiNegatifDitolak(t *testing.T) {
	fx := newScoreFixture(t, 10)

	_, _, err := fx.svc.Save(context.Background(), ActionStore, fx.lecturerID, fx.classID, fx.mappingID, fx.studentID, ptr(-1))

	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "harus >= 0", ve.Fields["raw_score"])
}

func TestScoreSave_DosenTidakDitugaskan(t *testing.T) {
	fx := newScoreFixture(t, 10)
	dosenLain := uuid.New()

	_, _, err := fx.svc.Save(context.Background(), ActionStore, dosenLain, fx.classID, fx.mappingID, fx.studentID, ptr(85))

	var ag *utils.AuthorizationGapError
	require.ErrorAs(t, err, &ag)
	assert.Equal(t, "Anda tidak ditugaskan pada kelas ini", ag.Message)
	assert.Empty(t, fx.scoreRepo.pg)
}

func TestScoreSave_PemetaanKelasLain(t *testing.T) {
	fx := newScoreFixture(t, 10)
	ctx := context.Background()

	// kelas lain tempat dosen ini juga ditugaskan
	kelasLain := uuid.New()
	fx.classRepo.assign(kelasLain, fx.lecturerID)

	// pemetaan tidak ada sama sekali
	_, _, err := fx.svc.Save(ctx, ActionStore, fx.lecturerID, fx.classID, uuid.New(), fx.studentID, ptr(85))
	var nf *utils.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Pemetaan penilaian tidak ditemukan", nf.Message)

	// pemetaan ada, tapi milik kelas berbeda dari yang diminta
	_, _, err = fx.svc.Save(ctx, ActionStore, fx.lecturerID, kelasLain, fx.mappingID, fx.studentID, ptr(85))
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Pemetaan tidak ditemukan pada kelas ini", nf.Message)
}

func TestScoreSave_GagalStorage(t *testing.T) {
	fx := newScoreFixture(t, 10)
	fx.scoreRepo.upsertErr = errors.New("connection reset")

	_, _, err := fx.svc.Save(context.Background(), ActionStore, fx.lecturerID, fx.classID, fx.mappingID, fx.studentID, ptr(85))

	var sf *utils.StorageFailure
	require.ErrorAs(t, err, &sf)
	assert.Empty(t, fx.scoreRepo.pg, "tidak boleh ada baris tersimpan sebagian")
	assert.Empty(t, fx.scoreRepo.mongo)
}

func TestScoreDelete_Idempoten(t *testing.T) {
	fx := newScoreFixture(t, 10)
	ctx := context.Background()

	_, _, err := fx.svc.Save(ctx, ActionStore, fx.lecturerID, fx.classID, fx.mappingID, fx.studentID, ptr(85))
	require.NoError(t, err)

	msg, err := fx.svc.Delete(ctx, fx.lecturerID, fx.classID, fx.mappingID, fx.studentID)
	require.NoError(t, err)
	assert.Equal(t, "Nilai berhasil dihapus.", msg)

	// hapus kedua kali: bukan error, hanya pesannya yang berbeda
	msg, err = fx.svc.Delete(ctx, fx.lecturerID, fx.classID, fx.mappingID, fx.studentID)
	require.NoError(t, err)
	assert.Equal(t, "Nilai sudah dihapus atau tidak ditemukan.", msg)
}

func TestScoreView_Gate(t *testing.T) {
	fx := newScoreFixture(t, 10)
	ctx := context.Background()

	_, _, err := fx.svc.Save(ctx, ActionStore, fx.lecturerID, fx.classID, fx.mappingID, fx.studentID, ptr(85))
	require.NoError(t, err)

	rows, err := fx.svc.View(ctx, fx.lecturerID, fx.classID, fx.mappingID, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = fx.svc.View(ctx, uuid.New(), fx.classID, fx.mappingID, nil)
	var ag *utils.AuthorizationGapError
	assert.ErrorAs(t, err, &ag)
}
