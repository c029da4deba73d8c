package main

import (
	"log"
	"os"

	"outcome-tracking-backend/app/repository"
	"outcome-tracking-backend/app/service"
	"outcome-tracking-backend/database"
	"outcome-tracking-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	// =================================================================
	// LOAD ENV
	// =================================================================
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env tidak ditemukan, menggunakan environment default")
	}

	// =================================================================
	// INIT DB (POSTGRES + MONGODB)
	// =================================================================
	dbConn, err := database.InitDB()
	if err != nil {
		log.Fatalf("❌ Gagal koneksi database: %v", err)
	}

	// =================================================================
	// SEED DATA (ROLES + ADMIN)
	// =================================================================
	database.RunSeeders(dbConn.Postgres)

	// =================================================================
	// REPOSITORIES
	// =================================================================
	userRepo := repository.NewUserRepository(dbConn.Postgres)
	curriculumRepo := repository.NewCurriculumRepository(dbConn.Postgres)
	outcomeRepo := repository.NewOutcomeRepository(dbConn.Postgres)
	mappingRepo := repository.NewMappingRepository(dbConn.Postgres)
	assessmentRepo := repository.NewAssessmentRepository(dbConn.Postgres)
	classRepo := repository.NewClassRepository(dbConn.Postgres)
	scoreRepo := repository.NewScoreRepository(dbConn.Postgres, dbConn.Mongo)
	reportRepo := repository.NewReportRepository(dbConn.Mongo)

	// =================================================================
	// SERVICES
	// =================================================================
	authService := service.NewAuthService(userRepo)
	outcomeService := service.NewOutcomeService(outcomeRepo)
	mappingService := service.NewMappingService(mappingRepo, curriculumRepo)
	assessmentService := service.NewAssessmentService(assessmentRepo, curriculumRepo)
	scoreService := service.NewScoreService(scoreRepo, assessmentRepo, classRepo, curriculumRepo)
	classService := service.NewClassService(classRepo, curriculumRepo)
	reportService := service.NewReportService(reportRepo, classRepo, curriculumRepo)

	// =================================================================
	// ROUTER
	// =================================================================
	r := gin.Default()

	// Auth
	routes.NewAuthHandler(authService, userRepo).SetupAuthRoutes(r)

	// Taksonomi capaian (CPL & CPMK)
	routes.NewOutcomeHandler(outcomeService).SetupOutcomeRoutes(r)

	// Weight Mapping Engine (Course-CPL & CPMK-CPL)
	routes.NewMappingHandler(mappingService).SetupMappingRoutes(r)

	// Kategori & butir penilaian (+ pemetaan butir ke CPMK)
	routes.NewAssessmentHandler(assessmentService).SetupAssessmentRoutes(r)

	// Nilai mahasiswa (Score Aggregator)
	routes.NewScoreHandler(scoreService).SetupScoreRoutes(r)

	// Penugasan dosen pengampu
	routes.ClassRoutes(r, classService)

	// Rekap nilai kelas
	routes.ReportRoutes(r, reportService)

	// Root endpoint (optional)
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Outcome Tracking API RUNNING",
			"version": "1.0.0",
		})
	})

	// =================================================================
	// START SERVER
	// =================================================================
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running at http://localhost:" + port)

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Gagal menjalankan server: %v", err)
	}
}
