package database

import (
	"log"
	"os"

	"outcome-tracking-backend/app/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunSeeders menjalankan seluruh seeder yang dibutuhkan.
// Panggil ini sekali di main.go setelah InitDB berhasil.
func RunSeeders(db *gorm.DB) {
	SeedRoles(db)
	SeedAdminUser(db)
}

// ===============================
//  SEED ROLES
// ===============================

// SeedRoles menambahkan 3 role utama:
// admin (universitas), kaprodi, dosen.
func SeedRoles(db *gorm.DB) {
	var count int64
	db.Model(&model.Role{}).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] Role sudah ada, skip seeding roles.")
		return
	}

	roles := []model.Role{
		{ID: uuid.New(), Name: "admin", Description: "Admin universitas, akses semua prodi"},
		{ID: uuid.New(), Name: "kaprodi", Description: "Ketua program studi, scope prodi sendiri"},
		{ID: uuid.New(), Name: "dosen", Description: "Dosen pengampu, scope kelas yang ditugaskan"},
	}

	if err := db.Create(&roles).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed roles: %v", err)
	}

	log.Println("[SEEDER] Berhasil seed role: admin, kaprodi, dosen")
}

// ===============================
//  SEED ADMIN USER
// ===============================

// SeedAdminUser membuat satu akun admin default bila belum ada user sama sekali.
// Password diambil dari ADMIN_PASSWORD (fallback "admin123" untuk development).
func SeedAdminUser(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] User sudah ada, skip seeding admin.")
		return
	}

	var adminRole model.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		log.Println("[SEEDER] Role admin belum ada, pastikan SeedRoles jalan dulu.")
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[SEEDER] Gagal hash password admin: %v", err)
	}

	admin := model.User{
		ID:           uuid.New(),
		Username:     "admin",
		Email:        "admin@kampus.ac.id",
		PasswordHash: string(hash),
		FullName:     "Administrator",
		RoleID:       adminRole.ID,
		IsActive:     true,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed admin user: %v", err)
	}

	log.Println("[SEEDER] Berhasil seed user admin default")
}
