package model

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScoreEntry adalah cermin dokumen di MongoDB (collection: score_entries)
// untuk satu baris StudentScore di Postgres. Dipakai oleh sisi pelaporan
// (agregasi capaian per kelas), bukan sebagai source of truth.
type ScoreEntry struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ScoreID             string             `bson:"scoreId" json:"scoreId"` // UUID StudentScore di Postgres
	ClassID             string             `bson:"classId" json:"classId"`
	SubAssessmentID     string             `bson:"subAssessmentId" json:"subAssessmentId"`
	SubAssessmentCPMKID string             `bson:"mappingId" json:"mappingId"`
	CPMKID              string             `bson:"cpmkId" json:"cpmkId"`
	StudentID           string             `bson:"studentId" json:"studentId"`
	NIM                 string             `bson:"nim" json:"nim"`
	RawScore            float64            `bson:"rawScore" json:"rawScore"`
	WeightedScore       float64            `bson:"weightedScore" json:"weightedScore"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewScoreEntry membentuk dokumen cermin dari baris StudentScore beserta
// konteks kelas/pemetaannya.
func NewScoreEntry(score StudentScore, classID uuid.UUID, subAssessmentID uuid.UUID, cpmkID uuid.UUID, nim string) ScoreEntry {
	return ScoreEntry{
		ScoreID:             score.ID.String(),
		ClassID:             classID.String(),
		SubAssessmentID:     subAssessmentID.String(),
		SubAssessmentCPMKID: score.SubAssessmentCPMKID.String(),
		CPMKID:              cpmkID.String(),
		StudentID:           score.StudentID.String(),
		NIM:                 nim,
		RawScore:            score.RawScore,
		WeightedScore:       score.WeightedScore,
		UpdatedAt:           score.UpdatedAt,
	}
}
