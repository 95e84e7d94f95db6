package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}))
	return db
}

func TestEnrollmentRepositoryCountAndExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	course := models.Course{Code: "CSE101", Title: "Intro to Programming", FacultyID: "f-1", Capacity: 2, Credits: 3}
	require.NoError(t, db.Create(&course).Error)

	first := models.Enrollment{CourseID: course.ID, UserID: "u-1"}
	require.NoError(t, repo.Create(ctx, &first))
	require.NotEmpty(t, first.ID)

	exists, err := repo.Exists(ctx, course.ID, "u-1")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.Exists(ctx, course.ID, "u-2")
	require.NoError(t, err)
	require.False(t, exists)

	count, err := repo.CountByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestEnrollmentRepositoryDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	enrollment := models.Enrollment{CourseID: "c-1", UserID: "u-1"}
	require.NoError(t, repo.Create(ctx, &enrollment))

	require.NoError(t, repo.Delete(ctx, "c-1", "u-1"))

	err := repo.Delete(ctx, "c-1", "u-1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := repo.CountByCourse(ctx, "c-1")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestEnrollmentRepositoryUniquePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Enrollment{CourseID: "c-1", UserID: "u-1"}))

	err := repo.Create(ctx, &models.Enrollment{CourseID: "c-1", UserID: "u-1"})
	require.Error(t, err, "unique index should reject the duplicate pair")
}
