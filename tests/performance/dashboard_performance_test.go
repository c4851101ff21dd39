package performance_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/internbooth/placement-api/internal/handler"
	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/repository"
	"github.com/internbooth/placement-api/internal/service"
)

func TestDashboardOverviewP95Under150ms(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Student{},
		&models.Faculty{},
		&models.Internship{},
		&models.Test{},
		&models.Application{},
		&models.TestAssignment{},
		&models.QuizSubmission{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	for i := 0; i < 50; i++ {
		student := models.Student{ID: newID("student", i), Name: "Student", Email: newID("student", i) + "@test.edu"}
		if err := db.Create(&student).Error; err != nil {
			t.Fatalf("seed student failed: %v", err)
		}
	}

	mini := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer redisClient.Close()

	stores := repository.Stores{
		Applications: repository.NewApplicationRepository(db),
		Assignments:  repository.NewAssignmentRepository(db),
		Submissions:  repository.NewQuizSubmissionRepository(db),
		Tests:        repository.NewTestRepository(db),
		Students:     repository.NewStudentRepository(db),
		Internships:  repository.NewInternshipRepository(db),
	}
	facultyRepo := repository.NewFacultyRepository(db)

	dashboardService := service.NewDashboardService(stores, facultyRepo, redisClient, time.Minute, zerolog.Nop())
	dashboardHandler := handler.NewDashboardHandler(dashboardService, zerolog.Nop())

	app := fiber.New()
	dashboardHandler.Register(app.Group("/api/v1/admin/dashboard"))

	requests := 100
	durations := make([]time.Duration, 0, requests)

	for i := 0; i < requests; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard/overview", nil)

		start := time.Now()
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("dashboard request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("unexpected status %d", resp.StatusCode)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	p95 := percentile(durations, 0.95)

	if p95 > 150*time.Millisecond {
		t.Fatalf("expected dashboard P95 <= 150ms, got %s", p95)
	}
}

func newID(prefix string, i int) string {
	return prefix + "-" + string(rune('a'+i%26)) + string(rune('a'+(i/26)%26))
}
