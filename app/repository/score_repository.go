package repository

import (
	"context"
	"fmt"

	"outcome-tracking-backend/app/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// ScoreRepository menangani baris nilai di Postgres (source of truth)
// plus dokumen cermin di MongoDB (collection: score_entries) untuk pelaporan.
type ScoreRepository interface {
	// FindByMapping mengambil nilai-nilai pada satu pemetaan, opsional
	// difilter ke satu mahasiswa, beserta identitas mahasiswa minimal.
	FindByMapping(mappingID uuid.UUID, studentID *uuid.UUID) ([]model.StudentScore, error)

	// FindByKey mengambil satu baris nilai berdasarkan (pemetaan, mahasiswa).
	FindByKey(mappingID uuid.UUID, studentID uuid.UUID) (*model.StudentScore, error)

	// Upsert menyimpan baris nilai (insert bila ID baru, update bila sudah ada)
	// sekaligus meng-upsert dokumen cermin di Mongo. Bila tulis Postgres gagal,
	// dokumen Mongo dikembalikan ke keadaan semula (kompensasi).
	Upsert(ctx context.Context, score *model.StudentScore, entry model.ScoreEntry) error

	// Delete menghapus baris nilai berdasarkan (pemetaan, mahasiswa) berikut
	// dokumen cerminnya. Mengembalikan jumlah baris Postgres yang terhapus.
	Delete(ctx context.Context, mappingID uuid.UUID, studentID uuid.UUID) (int64, error)
}

type scoreRepository struct {
	pgDB    *gorm.DB
	mongoDB *mongo.Database
}

// NewScoreRepository membuat instance baru scoreRepository.
func NewScoreRepository(pgDB *gorm.DB, mongoDB *mongo.Database) ScoreRepository {
	return &scoreRepository{pgDB: pgDB, mongoDB: mongoDB}
}

const scoreCollection = "score_entries"

// FindByMapping mengambil seluruh nilai pada satu pemetaan.
func (r *scoreRepository) FindByMapping(mappingID uuid.UUID, studentID *uuid.UUID) ([]model.StudentScore, error) {
	q := r.pgDB.
		Preload("Student").
		Where("sub_assessment_cpmk_id = ?", mappingID)
	if studentID != nil {
		q = q.Where("student_id = ?", *studentID)
	}

	var rows []model.StudentScore
	err := q.Order("created_at ASC").Find(&rows).Error
	return rows, err
}

// FindByKey mengambil satu baris nilai; gorm.ErrRecordNotFound bila tidak ada.
func (r *scoreRepository) FindByKey(mappingID uuid.UUID, studentID uuid.UUID) (*model.StudentScore, error) {
	var row model.StudentScore
	err := r.pgDB.
		Where("sub_assessment_cpmk_id = ? AND student_id = ?", mappingID, studentID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert:
// 1. Simpan dulu keadaan dokumen Mongo lama (jika ada) untuk kompensasi.
// 2. ReplaceOne (upsert) dokumen cermin di Mongo.
// 3. Save baris nilai di Postgres dalam transaksi.
// 4. Bila Postgres gagal: rollback + kembalikan dokumen Mongo ke keadaan lama.
func (r *scoreRepository) Upsert(ctx context.Context, score *model.StudentScore, entry model.ScoreEntry) error {
	coll := r.mongoDB.Collection(scoreCollection)
	filter := bson.M{
		"mappingId": entry.SubAssessmentCPMKID,
		"studentId": entry.StudentID,
	}

	// Step 1: baca dokumen lama (jika ada) untuk bahan kompensasi
	var oldEntry *model.ScoreEntry
	var prev model.ScoreEntry
	err := coll.FindOne(ctx, filter).Decode(&prev)
	switch {
	case err == nil:
		oldEntry = &prev
	case err == mongo.ErrNoDocuments:
		// belum ada dokumen, insert murni
	default:
		return fmt.Errorf("mongo read error: %w", err)
	}

	// Step 2: upsert dokumen cermin
	if _, err := coll.ReplaceOne(ctx, filter, entry, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("mongo upsert error: %w", err)
	}

	// Step 3: tulis Postgres dalam transaksi
	txErr := r.pgDB.Transaction(func(tx *gorm.DB) error {
		return tx.Save(score).Error
	})
	if txErr != nil {
		// Step 4: kompensasi Mongo supaya cermin tidak mendahului source of truth
		if oldEntry != nil {
			_, _ = coll.ReplaceOne(ctx, filter, oldEntry)
		} else {
			_, _ = coll.DeleteOne(ctx, filter)
		}
		return fmt.Errorf("postgres upsert error: %w", txErr)
	}

	return nil
}

// Delete menghapus baris nilai Postgres lalu dokumen cerminnya.
func (r *scoreRepository) Delete(ctx context.Context, mappingID uuid.UUID, studentID uuid.UUID) (int64, error) {
	res := r.pgDB.
		Where("sub_assessment_cpmk_id = ? AND student_id = ?", mappingID, studentID).
		Delete(&model.StudentScore{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}

	_, err := r.mongoDB.Collection(scoreCollection).DeleteOne(ctx, bson.M{
		"mappingId": mappingID.String(),
		"studentId": studentID.String(),
	})
	if err != nil {
		return res.RowsAffected, fmt.Errorf("mongo delete error: %w", err)
	}
	return res.RowsAffected, nil
}
