package model

import (
	"time"

	"github.com/google/uuid"
)

// User merepresentasikan akun pengguna sistem (admin, kaprodi, dosen)
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string    `gorm:"unique;not null"`
	Email        string    `gorm:"unique;not null"`
	PasswordHash string    `gorm:"not null"`
	FullName     string    `gorm:"not null"`
	RoleID       uuid.UUID `gorm:"type:uuid;not null"`
	Role         Role      `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	IsActive     bool      `gorm:"default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Role menyimpan peran pengguna (admin, kaprodi, dosen)
type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"unique;not null"`
	Description string
	Users       []User    `gorm:"foreignKey:RoleID"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// Program merepresentasikan program studi (prodi)
type Program struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string    `gorm:"type:varchar(20);unique;not null"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Faculty   string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Course merepresentasikan mata kuliah milik satu prodi
type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProgramID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_program_code"`
	Program   Program   `gorm:"foreignKey:ProgramID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Code      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_course_program_code"`
	Name      string    `gorm:"type:varchar(150);not null"`
	Credits   int       `gorm:"not null;default:0"` // SKS
	Semester  int
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Class merepresentasikan kelas perkuliahan dari satu mata kuliah
type Class struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Course       Course    `gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name         string    `gorm:"type:varchar(50);not null"` // misal: "A", "B", "Pagi"
	AcademicYear string    `gorm:"type:varchar(10)"`          // misal: "2025/2026"
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Lecturer merepresentasikan data dosen
type Lecturer struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	NIDN      string    `gorm:"type:varchar(20);unique;not null"`
	ProgramID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// ClassLecturer adalah baris penugasan dosen pengampu pada satu kelas.
// Satu kelas bisa diampu beberapa dosen dengan label peran berbeda
// (Lead / Co-1 / Co-2); gate penugasan tidak membedakan labelnya.
type ClassLecturer struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ClassID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_class_lecturer"`
	Class      Class     `gorm:"foreignKey:ClassID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	LecturerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_class_lecturer"`
	Lecturer   Lecturer  `gorm:"foreignKey:LecturerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Role       string    `gorm:"type:varchar(20);not null;default:'Lead';check:role IN ('Lead','Co-1','Co-2')"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Student merepresentasikan data mahasiswa
type Student struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	NIM        string    `gorm:"type:varchar(20);unique;not null"`
	FullName   string    `gorm:"type:varchar(100);not null"`
	ProgramID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CohortYear string    `gorm:"type:varchar(10)"` // angkatan
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// CPL merepresentasikan capaian pembelajaran lulusan (program outcome).
// Kode unik per prodi. Menghapus CPL ikut menghapus pemetaan Course-CPL miliknya.
type CPL struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProgramID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cpl_program_code"`
	Program     Program   `gorm:"foreignKey:ProgramID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Code        string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_cpl_program_code"`
	Name        string    `gorm:"type:varchar(150);not null"`
	Description string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// CPMK merepresentasikan capaian pembelajaran mata kuliah (course outcome).
// CPMK di-scope ke prodi dan dapat dipakai ulang di banyak mata kuliah
// lewat pemetaan CPMK-CPL per course (varian reusable).
type CPMK struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProgramID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cpmk_program_code"`
	Program     Program   `gorm:"foreignKey:ProgramID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Code        string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_cpmk_program_code"`
	Name        string    `gorm:"type:varchar(150);not null"`
	Description string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// CourseCPL adalah pemetaan berbobot CPL → mata kuliah.
// Invariant: total bobot seluruh CPL pada satu course harus tepat 100.00.
type CourseCPL struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_cpl"`
	Course    Course    `gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CPLID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_cpl"`
	CPL       CPL       `gorm:"foreignKey:CPLID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Bobot     float64   `gorm:"type:numeric(5,2);not null"` // persen, 2 desimal
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// CPMKCPL adalah pemetaan berbobot CPMK → CPL, di-scope per mata kuliah.
// Invariant: untuk satu (course, CPL), total bobot CPMK = bobot CPL tsb
// pada pemetaan CourseCPL course yang sama.
type CPMKCPL struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cpmk_cpl"`
	Course    Course    `gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CPMKID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cpmk_cpl"`
	CPMK      CPMK      `gorm:"foreignKey:CPMKID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CPLID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cpmk_cpl"`
	CPL       CPL       `gorm:"foreignKey:CPLID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Bobot     float64   `gorm:"type:numeric(5,2);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Assessment adalah kategori penilaian pada satu kelas (misal: "Quiz", "UTS")
type Assessment struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ClassID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Class          Class           `gorm:"foreignKey:ClassID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name           string          `gorm:"type:varchar(100);not null"`
	SubAssessments []SubAssessment `gorm:"foreignKey:AssessmentID"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

// SubAssessment adalah butir penilaian di bawah satu kategori (misal: "Quiz 1")
type SubAssessment struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AssessmentID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Assessment   Assessment          `gorm:"foreignKey:AssessmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ClassID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Name         string              `gorm:"type:varchar(100);not null"`
	CPMKs        []SubAssessmentCPMK `gorm:"foreignKey:SubAssessmentID"`
	CreatedAt    time.Time           `gorm:"autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime"`
}

// SubAssessmentCPMK adalah pemetaan berbobot butir penilaian → CPMK.
// Tidak ada invariant jumlah di layer ini; tiap baris berdiri sendiri.
// Baris ikut terhapus (cascade) saat SubAssessment induknya dihapus.
type SubAssessmentCPMK struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SubAssessmentID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_sub_cpmk"`
	SubAssessment   SubAssessment `gorm:"foreignKey:SubAssessmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CPMKID          uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_sub_cpmk"`
	CPMK            CPMK          `gorm:"foreignKey:CPMKID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Bobot           float64       `gorm:"type:numeric(5,2);not null;default:0"`
	CreatedAt       time.Time     `gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime"`
}

// StudentScore menyimpan nilai mentah dan nilai terbobot satu mahasiswa
// pada satu pemetaan SubAssessment-CPMK.
// Unik per (pemetaan, mahasiswa); index unik inilah yang menjamin dua upsert
// konkuren tidak menghasilkan baris ganda.
type StudentScore struct {
	ID                  uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SubAssessmentCPMKID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_score_mapping_student"`
	SubAssessmentCPMK   SubAssessmentCPMK `gorm:"foreignKey:SubAssessmentCPMKID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	StudentID           uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_score_mapping_student"`
	Student             Student           `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	RawScore            float64           `gorm:"type:numeric(8,2);not null"`
	WeightedScore       float64           `gorm:"type:numeric(8,2);not null"`
	CreatedAt           time.Time         `gorm:"autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"autoUpdateTime"`
}
