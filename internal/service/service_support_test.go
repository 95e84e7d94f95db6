package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Submission{},
		&models.Grade{},
		&models.Announcement{},
		&models.CalendarEvent{},
		&models.TimetableSlot{},
		&models.Message{},
		&models.ActivityLog{},
	))
	return db
}

func testPolicy(db *gorm.DB) *Policy {
	return NewPolicy(repository.NewCourseRepository(db), repository.NewEnrollmentRepository(db))
}

func testValidate() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// noopRecorder satisfies ActivityRecorder for tests that do not assert on
// the audit trail.
type noopRecorder struct{}

func (noopRecorder) Record(context.Context, ActivityEntry) {}

// plainVerifier stores passwords verbatim so auth tests skip bcrypt work.
type plainVerifier struct{}

func (plainVerifier) Hash(plain string) (string, error) { return plain, nil }

func (plainVerifier) Verify(hash, plain string) bool { return hash == plain }

func createUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, PasswordHash: "pass", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, code, facultyID string, capacity int) models.Course {
	t.Helper()
	course := models.Course{Code: code, Title: code + " Title", FacultyID: facultyID, Capacity: capacity, Credits: 3}
	require.NoError(t, db.Create(&course).Error)
	return course
}
