package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arkield/campus-api/internal/models"
)

func TestSeedIfEmptyPopulatesBaseline(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSeedService(db, plainVerifier{}, testLogger())
	ctx := context.Background()

	seeded, err := svc.SeedIfEmpty(ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.Equal(t, int64(3), users)

	var courses int64
	require.NoError(t, db.Model(&models.Course{}).Count(&courses).Error)
	require.Equal(t, int64(2), courses)

	var faculty models.User
	require.NoError(t, db.Where("role = ?", models.RoleFaculty).First(&faculty).Error)
	var intro models.Course
	require.NoError(t, db.Where("code = ?", "CSE101").First(&intro).Error)
	require.Equal(t, faculty.ID, intro.FacultyID)
	require.Equal(t, 60, intro.Capacity)

	var enrollments int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&enrollments).Error)
	require.Equal(t, int64(1), enrollments)

	var slots int64
	require.NoError(t, db.Model(&models.TimetableSlot{}).Count(&slots).Error)
	require.Equal(t, int64(3), slots)
}

func TestSeedIfEmptySkipsPopulatedStore(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSeedService(db, plainVerifier{}, testLogger())
	ctx := context.Background()

	createUser(t, db, "Existing", "existing@example.edu", models.RoleAdmin)

	seeded, err := svc.SeedIfEmpty(ctx)
	require.NoError(t, err)
	require.False(t, seeded)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.Equal(t, int64(1), users)
}
