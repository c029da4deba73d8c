package service

import (
	"testing"

	"outcome-tracking-backend/app/model"
	"outcome-tracking-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assessmentFixture struct {
	svc          AssessmentService
	repo         *fakeAssessmentRepo
	currRepo     *fakeCurriculumRepo
	classID      uuid.UUID
	assessmentID uuid.UUID
}

func newAssessmentFixture() *assessmentFixture {
	currRepo := newFakeCurriculumRepo()
	repo := newFakeAssessmentRepo()

	classID := uuid.New()
	currRepo.classes[classID] = &model.Class{ID: classID, Name: "A"}

	assessmentID := uuid.New()
	a := &model.Assessment{ID: assessmentID, ClassID: classID, Name: "Quiz"}
	repo.assessments[assessmentID] = a
	currRepo.assessments[assessmentID] = a

	return &assessmentFixture{
		svc:          NewAssessmentService(repo, currRepo),
		repo:         repo,
		currRepo:     currRepo,
		classID:      classID,
		assessmentID: assessmentID,
	}
}

func TestSaveSubAssessment_BobotKosongDiisiNol(t *testing.T) {
	fx := newAssessmentFixture()
	cpmk1, cpmk2 := uuid.New(), uuid.New()
	fx.currRepo.cpmks[cpmk1] = true
	fx.currRepo.cpmks[cpmk2] = true

	// bobot cpmk2 tidak dikirim: harus tersimpan 0, bukan ditolak
	saved, msg, err := fx.svc.SaveSubAssessment(ActionStore, SubAssessmentInput{
		AssessmentID: fx.assessmentID,
		ClassID:      fx.classID,
		Name:         "Quiz 1",
		CPMKs: []SubCPMKInput{
			{CPMKID: cpmk1, Bobot: ptr(30)},
			{CPMKID: cpmk2},
		},
	})

	require.NoError(t, err)
	require.Len(t, saved.CPMKs, 2)
	assert.Equal(t, "Butir penilaian berhasil ditambahkan.", msg)

	byCPMK := map[uuid.UUID]float64{}
	for _, row := range saved.CPMKs {
		byCPMK[row.CPMKID] = row.Bobot
	}
	assert.Equal(t, 30.0, byCPMK[cpmk1])
	assert.Equal(t, 0.0, byCPMK[cpmk2])
}

func TestSaveSubAssessment_UpdateGantiPemetaan(t *testing.T) {
	fx := newAssessmentFixture()
	cpmk1, cpmk2 := uuid.New(), uuid.New()
	fx.currRepo.cpmks[cpmk1] = true
	fx.currRepo.cpmks[cpmk2] = true

	saved, _, err := fx.svc.SaveSubAssessment(ActionStore, SubAssessmentInput{
		AssessmentID: fx.assessmentID,
		ClassID:      fx.classID,
		Name:         "Quiz 1",
		CPMKs:        []SubCPMKInput{{CPMKID: cpmk1, Bobot: ptr(50)}},
	})
	require.NoError(t, err)

	// update mengganti seluruh pemetaan dengan set baru
	updated, msg, err := fx.svc.SaveSubAssessment(ActionUpdate, SubAssessmentInput{
		ID:           saved.ID,
		AssessmentID: fx.assessmentID,
		ClassID:      fx.classID,
		Name:         "Quiz 1 (revisi)",
		CPMKs:        []SubCPMKInput{{CPMKID: cpmk2, Bobot: ptr(70)}},
	})
	require.NoError(t, err)
	require.Len(t, updated.CPMKs, 1)
	assert.Equal(t, cpmk2, updated.CPMKs[0].CPMKID)
	assert.Equal(t, "Butir penilaian berhasil diperbarui.", msg)
}

func TestSaveSubAssessment_Validasi(t *testing.T) {
	fx := newAssessmentFixture()
	cpmk1 := uuid.New()
	fx.currRepo.cpmks[cpmk1] = true

	// kategori milik kelas lain
	kelasLain := uuid.New()
	fx.currRepo.classes[kelasLain] = &model.Class{ID: kelasLain, Name: "B"}

	_, _, err := fx.svc.SaveSubAssessment(ActionStore, SubAssessmentInput{
		AssessmentID: fx.assessmentID,
		ClassID:      kelasLain,
		Name:         "Quiz 1",
	})
	var ve *utils.ValidationError
	assert.ErrorAs(t, err, &ve)

	// CPMK tidak terdaftar
	_, _, err = fx.svc.SaveSubAssessment(ActionStore, SubAssessmentInput{
		AssessmentID: fx.assessmentID,
		ClassID:      fx.classID,
		Name:         "Quiz 1",
		CPMKs:        []SubCPMKInput{{CPMKID: uuid.New()}},
	})
	assert.ErrorAs(t, err, &ve)

	// update pada butir yang tidak ada
	_, _, err = fx.svc.SaveSubAssessment(ActionUpdate, SubAssessmentInput{
		ID:           uuid.New(),
		AssessmentID: fx.assessmentID,
		ClassID:      fx.classID,
		Name:         "Quiz 1",
	})
	var nf *utils.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteSubAssessment_PemetaanIkutTerhapus(t *testing.T) {
	fx := newAssessmentFixture()
	cpmk1 := uuid.New()
	fx.currRepo.cpmks[cpmk1] = true

	saved, _, err := fx.svc.SaveSubAssessment(ActionStore, SubAssessmentInput{
		AssessmentID: fx.assessmentID,
		ClassID:      fx.classID,
		Name:         "Quiz 1",
		CPMKs:        []SubCPMKInput{{CPMKID: cpmk1, Bobot: ptr(40)}},
	})
	require.NoError(t, err)

	msg, err := fx.svc.DeleteSubAssessment(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Butir penilaian berhasil dihapus.", msg)
	assert.Empty(t, fx.repo.mappings)

	_, err = fx.svc.DeleteSubAssessment(saved.ID)
	var nf *utils.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
