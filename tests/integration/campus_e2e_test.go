package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/config"
	"github.com/arkield/campus-api/internal/database"
	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/handler"
	"github.com/arkield/campus-api/internal/middleware"
	"github.com/arkield/campus-api/internal/repository"
	"github.com/arkield/campus-api/internal/router"
	"github.com/arkield/campus-api/internal/service"
)

const jwtSecret = "integration-secret"

func setupCampusApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	verifier := service.BcryptVerifier{}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	policy := service.NewPolicy(courseRepo, enrollmentRepo)
	activityService := service.NewActivityService(activityRepo, nil, "campus.events", logger)

	authService := service.NewAuthService(userRepo, verifier, validate, activityService, jwtSecret, time.Hour, logger)
	userService := service.NewUserService(userRepo, policy, verifier, validate, activityService, logger)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, userRepo, policy, validate, activityService, logger)
	enrollmentService := service.NewEnrollmentService(db, policy, activityService, nil, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, enrollmentRepo, policy, validate, activityService, nil, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, courseRepo, gradeRepo, policy, validate, activityService, logger)
	gradingService := service.NewGradingService(db, policy, validate, activityService, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, courseRepo, enrollmentRepo, policy, validate, activityService, nil, logger)
	calendarService := service.NewCalendarService(calendarRepo, policy, validate, activityService, logger)
	messageService := service.NewMessageService(messageRepo, courseRepo, userRepo, policy, validate, activityService, logger)
	overviewService := service.NewOverviewService(assignmentRepo, announcementRepo, submissionRepo, gradeRepo, courseRepo, policy, nil, 0, logger)

	snapshotService, err := service.NewSnapshotService(db, policy, logger)
	require.NoError(t, err)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})

	router.Register(app, config.Config{AppName: "Campus API", JWTSecret: jwtSecret}, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		CourseHandler:       handler.NewCourseHandler(courseService, enrollmentService, announcementService, logger),
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService, submissionService, gradingService, logger),
		AnnouncementHandler: handler.NewAnnouncementHandler(announcementService, logger),
		CalendarHandler:     handler.NewCalendarHandler(calendarService, logger),
		MessageHandler:      handler.NewMessageHandler(messageService, logger),
		OverviewHandler:     handler.NewOverviewHandler(overviewService, logger),
		AdminHandler:        handler.NewAdminHandler(userService, activityService, snapshotService, logger),
		JWTMiddleware:       middleware.JWTProtected(jwtSecret),
	})

	return app
}

func decode[T any](t *testing.T, resp *http.Response, target *T) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func registerAccount(t *testing.T, app *fiber.App, name, email, role string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "hunter22",
		"role":     role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool             `json:"success"`
		Data    dto.AuthResponse `json:"data"`
	}
	decode(t, resp, &body)
	require.True(t, body.Success)
	require.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

func TestCourseLifecycleEndToEnd(t *testing.T) {
	app := setupCampusApp(t)

	facultyToken := registerAccount(t, app, "Dr. Barun", "barun@example.edu", "faculty")
	studentToken := registerAccount(t, app, "Alice", "alice@example.edu", "student")

	// Faculty opens a course.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/courses", facultyToken, map[string]interface{}{
		"code":     "cse101",
		"title":    "Structured Programming",
		"capacity": 60,
		"credits":  3,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var courseBody struct {
		Success bool               `json:"success"`
		Data    dto.CourseResponse `json:"data"`
	}
	decode(t, resp, &courseBody)
	require.True(t, courseBody.Success)
	require.Equal(t, "CSE101", courseBody.Data.Code)
	courseID := courseBody.Data.ID

	// Student cannot create courses.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/courses", studentToken, map[string]interface{}{
		"code":     "phy201",
		"title":    "Mechanics",
		"capacity": 40,
		"credits":  3,
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Student enrolls.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/courses/"+courseID+"/enroll", studentToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// A second enrollment attempt conflicts.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/courses/"+courseID+"/enroll", studentToken, nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Faculty posts an assignment.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/assignments", facultyToken, map[string]interface{}{
		"course_id": courseID,
		"title":     "HW1",
		"due_at":    time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"points":    100,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var assignmentBody struct {
		Success bool                   `json:"success"`
		Data    dto.AssignmentResponse `json:"data"`
	}
	decode(t, resp, &assignmentBody)
	assignmentID := assignmentBody.Data.ID

	// Student hands in work.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/assignments/"+assignmentID+"/submissions", studentToken, map[string]interface{}{
		"file_name": "hw1.pdf",
		"note":      "first attempt",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var submissionBody struct {
		Success bool                   `json:"success"`
		Data    dto.SubmissionResponse `json:"data"`
	}
	decode(t, resp, &submissionBody)
	submissionID := submissionBody.Data.ID

	// Faculty publishes the grade.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/submissions/"+submissionID+"/grade", facultyToken, map[string]interface{}{
		"score":    85,
		"feedback": "Good work",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Grading twice conflicts.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/submissions/"+submissionID+"/grade", facultyToken, map[string]interface{}{
		"score": 90,
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The student's transcript reflects the published grade.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/me/transcript", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var transcriptBody struct {
		Success bool                   `json:"success"`
		Data    dto.TranscriptResponse `json:"data"`
	}
	decode(t, resp, &transcriptBody)
	require.Len(t, transcriptBody.Data.Rows, 1)
	require.Equal(t, 85.0, transcriptBody.Data.TotalEarned)
	require.Equal(t, 100.0, transcriptBody.Data.TotalPoints)
	require.Equal(t, 85, transcriptBody.Data.Percentage)

	// The overview lists the upcoming deadline.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/me/overview", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var overviewBody struct {
		Success bool                 `json:"success"`
		Data    dto.OverviewResponse `json:"data"`
	}
	decode(t, resp, &overviewBody)
	require.Len(t, overviewBody.Data.UpcomingAssignments, 1)
	require.Equal(t, "HW1", overviewBody.Data.UpcomingAssignments[0].Title)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app := setupCampusApp(t)

	adminToken := registerAccount(t, app, "Root", "root@example.edu", "admin")
	studentToken := registerAccount(t, app, "Alice", "alice@example.edu", "student")

	resp := doJSON(t, app, http.MethodGet, "/api/v1/admin/users", studentToken, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/users", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var usersBody struct {
		Success bool               `json:"success"`
		Data    []dto.UserResponse `json:"data"`
	}
	decode(t, resp, &usersBody)
	require.Len(t, usersBody.Data, 2)

	// Unauthenticated requests are rejected before the role check.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/users", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
