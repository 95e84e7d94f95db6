package performance_test

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/database"
	"github.com/arkield/campus-api/internal/handler"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
	"github.com/arkield/campus-api/internal/service"
)

func setupOverviewPerformanceApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	faculty := models.User{Name: "Dr. Barun", Email: "barun@example.edu", Role: models.RoleFaculty, PasswordHash: "x"}
	require.NoError(t, db.Create(&faculty).Error)

	student := models.User{Name: "Alice", Email: "alice@example.edu", Role: models.RoleStudent, PasswordHash: "x"}
	require.NoError(t, db.Create(&student).Error)

	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		course := models.Course{
			Code:      fmt.Sprintf("CSE%03d", 100+i),
			Title:     fmt.Sprintf("Course %d", i),
			FacultyID: faculty.ID,
			Capacity:  60,
			Credits:   3,
		}
		require.NoError(t, db.Create(&course).Error)
		require.NoError(t, db.Create(&models.Enrollment{CourseID: course.ID, UserID: student.ID}).Error)

		for j := 0; j < 20; j++ {
			assignment := models.Assignment{
				CourseID: course.ID,
				Title:    fmt.Sprintf("HW%d", j),
				DueAt:    now.Add(time.Duration(j+1) * 24 * time.Hour),
				Points:   100,
			}
			require.NoError(t, db.Create(&assignment).Error)
		}
		for j := 0; j < 10; j++ {
			announcement := models.Announcement{
				CourseID: course.ID,
				Title:    fmt.Sprintf("Notice %d", j),
				Body:     "Details follow.",
			}
			require.NoError(t, db.Create(&announcement).Error)
		}
	}

	assignmentRepo := repository.NewAssignmentRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	policy := service.NewPolicy(courseRepo, enrollmentRepo)
	overviewService := service.NewOverviewService(assignmentRepo, announcementRepo, submissionRepo, gradeRepo, courseRepo, policy, nil, 0, zerolog.Nop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", student.ID)
		c.Locals("user_role", string(models.RoleStudent))
		return c.Next()
	})
	handler.NewOverviewHandler(overviewService, zerolog.Nop()).Register(app.Group("/api/me"))

	return app
}

func TestOverviewP95LatencyBelow250ms(t *testing.T) {
	app := setupOverviewPerformanceApp(t)

	runs := 40
	durations := make([]time.Duration, 0, runs)

	for i := 0; i < runs; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/me/overview", nil)
		start := time.Now()
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	index := int(math.Ceil(0.95*float64(len(durations)))) - 1
	if index < 0 {
		index = 0
	}
	p95 := durations[index]

	require.LessOrEqual(t, p95, 250*time.Millisecond)
}
