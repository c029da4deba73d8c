package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"outcome-tracking-backend/app/model"
	"outcome-tracking-backend/app/service"
	"outcome-tracking-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScoreService mengembalikan hasil kalengan; boundary yang diuji,
// bukan logika nilai.
type stubScoreService struct {
	score   *model.StudentScore
	message string
	err     error
}

func (s *stubScoreService) View(ctx context.Context, lecturerID, classID, mappingID uuid.UUID, studentID *uuid.UUID) ([]model.StudentScore, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []model.StudentScore{*s.score}, nil
}

func (s *stubScoreService) Save(ctx context.Context, action service.Action, lecturerID, classID, mappingID, studentID uuid.UUID, rawScore *float64) (*model.StudentScore, string, error) {
	return s.score, s.message, s.err
}

func (s *stubScoreService) Delete(ctx context.Context, lecturerID, classID, mappingID, studentID uuid.UUID) (string, error) {
	return s.message, s.err
}

// newScoreContext menyiapkan gin.Context seolah sudah lolos AuthMiddleware.
func newScoreContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = req
	ctx.Params = gin.Params{{Key: "classId", Value: uuid.New().String()}}
	ctx.Set("lecturerID", uuid.New())
	ctx.Set("role", "dosen")
	return ctx, rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestStoreScore_Sukses(t *testing.T) {
	svc := &stubScoreService{
		score:   &model.StudentScore{ID: uuid.New(), RawScore: 85, WeightedScore: 8.50},
		message: "Nilai berhasil ditambahkan.",
	}
	h := NewScoreHandler(svc)

	ctx, rec := newScoreContext(t, http.MethodPost, "/api/v1/classes/x/scores", gin.H{
		"mappingId": uuid.New().String(),
		"studentId": uuid.New().String(),
		"rawScore":  85,
	})
	h.StoreScore(ctx)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Status)
	assert.Equal(t, "Nilai berhasil ditambahkan.", resp.Message)
}

func TestStoreScore_InvariantKe422(t *testing.T) {
	svc := &stubScoreService{err: &utils.InvariantViolation{Message: "Total bobot CPL harus 100%"}}
	h := NewScoreHandler(svc)

	ctx, rec := newScoreContext(t, http.MethodPost, "/api/v1/classes/x/scores", gin.H{
		"mappingId": uuid.New().String(),
		"studentId": uuid.New().String(),
		"rawScore":  85,
	})
	h.StoreScore(ctx)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Status)
	assert.Equal(t, "Total bobot CPL harus 100%", resp.Message)
}

func TestStoreScore_GateKe403(t *testing.T) {
	svc := &stubScoreService{err: &utils.AuthorizationGapError{Message: "Anda tidak ditugaskan pada kelas ini"}}
	h := NewScoreHandler(svc)

	ctx, rec := newScoreContext(t, http.MethodPost, "/api/v1/classes/x/scores", gin.H{
		"mappingId": uuid.New().String(),
		"studentId": uuid.New().String(),
		"rawScore":  85,
	})
	h.StoreScore(ctx)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteScore_KonvensiMarker(t *testing.T) {
	payload := gin.H{
		"mappingId": uuid.New().String(),
		"studentId": uuid.New().String(),
	}

	// pesan memuat "berhasil": 200
	h := NewScoreHandler(&stubScoreService{message: "Nilai berhasil dihapus."})
	ctx, rec := newScoreContext(t, http.MethodDelete, "/api/v1/classes/x/scores", payload)
	h.DeleteScore(ctx)
	assert.Equal(t, http.StatusOK, rec.Code)

	// pesan tanpa "berhasil" (baris sudah tidak ada): 422, bukan error 500
	h = NewScoreHandler(&stubScoreService{message: "Nilai sudah dihapus atau tidak ditemukan."})
	ctx, rec = newScoreContext(t, http.MethodDelete, "/api/v1/classes/x/scores", payload)
	h.DeleteScore(ctx)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Status)
	assert.Equal(t, "Nilai sudah dihapus atau tidak ditemukan.", resp.Message)
}

func TestStoreScore_BodyRusakKe400(t *testing.T) {
	h := NewScoreHandler(&stubScoreService{})

	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/classes/x/scores", bytes.NewBufferString("{bukan json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = req
	ctx.Params = gin.Params{{Key: "classId", Value: uuid.New().String()}}

	h.StoreScore(ctx)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
