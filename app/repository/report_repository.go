package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StudentCPMKTotal adalah agregat nilai terbobot satu mahasiswa pada satu CPMK.
type StudentCPMKTotal struct {
	CPMKID        string  `json:"cpmkId"`
	TotalWeighted float64 `json:"totalWeighted"`
}

// StudentResult adalah hasil rekap satu mahasiswa dalam satu kelas.
type StudentResult struct {
	StudentID     string             `json:"studentId"`
	NIM           string             `json:"nim"`
	TotalWeighted float64            `json:"totalWeighted"`
	PerCPMK       []StudentCPMKTotal `json:"perCpmk"`
}

// ClassResult adalah rekap nilai terbobot satu kelas:
// total kontribusi per mahasiswa plus rinciannya per CPMK.
type ClassResult struct {
	ClassID  string          `json:"classId"`
	Students []StudentResult `json:"students"`
}

// ReportRepository menjalankan agregasi pelaporan di MongoDB atas
// dokumen cermin score_entries.
type ReportRepository interface {
	// GetClassResult merekap nilai terbobot satu kelas per mahasiswa per CPMK.
	GetClassResult(ctx context.Context, classID string) (*ClassResult, error)
}

type reportRepository struct {
	mongo *mongo.Database
}

// NewReportRepository membuat instance baru reportRepository.
func NewReportRepository(mongoDB *mongo.Database) ReportRepository {
	return &reportRepository{mongo: mongoDB}
}

// GetClassResult menjalankan satu pipeline agregasi:
// - match classId
// - group per (studentId, cpmkId) → jumlah weightedScore
// - group per studentId → total + rincian per CPMK
// - sort by nim ascending
func (r *reportRepository) GetClassResult(ctx context.Context, classID string) (*ClassResult, error) {
	coll := r.mongo.Collection("score_entries")

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"classId": classID}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"studentId": "$studentId",
				"cpmkId":    "$cpmkId",
			},
			"nim":   bson.M{"$first": "$nim"},
			"total": bson.M{"$sum": "$weightedScore"},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$_id.studentId",
			"nim": bson.M{"$first": "$nim"},
			"perCpmk": bson.M{"$push": bson.M{
				"cpmkId": "$_id.cpmkId",
				"total":  "$total",
			}},
			"totalWeighted": bson.M{"$sum": "$total"},
		}}},
		{{Key: "$sort", Value: bson.M{"nim": 1}}},
	}

	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	result := &ClassResult{
		ClassID:  classID,
		Students: []StudentResult{},
	}

	for cur.Next(ctx) {
		var row struct {
			ID      string `bson:"_id"`
			NIM     string `bson:"nim"`
			PerCPMK []struct {
				CPMKID string  `bson:"cpmkId"`
				Total  float64 `bson:"total"`
			} `bson:"perCpmk"`
			TotalWeighted float64 `bson:"totalWeighted"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}

		student := StudentResult{
			StudentID:     row.ID,
			NIM:           row.NIM,
			TotalWeighted: row.TotalWeighted,
			PerCPMK:       make([]StudentCPMKTotal, 0, len(row.PerCPMK)),
		}
		for _, p := range row.PerCPMK {
			student.PerCPMK = append(student.PerCPMK, StudentCPMKTotal{
				CPMKID:        p.CPMKID,
				TotalWeighted: p.Total,
			})
		}
		result.Students = append(result.Students, student)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
