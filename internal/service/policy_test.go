package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arkield/campus-api/internal/models"
)

func TestPolicyVisibleCoursesPerRole(t *testing.T) {
	db := setupServiceDB(t)
	policy := testPolicy(db)
	ctx := context.Background()

	faculty := createUser(t, db, "Dr. Barun", "barun@example.edu", models.RoleFaculty)
	other := createUser(t, db, "Dr. Datta", "datta@example.edu", models.RoleFaculty)
	student := createUser(t, db, "Alice", "alice@example.edu", models.RoleStudent)
	admin := createUser(t, db, "Carol", "carol@example.edu", models.RoleAdmin)

	owned := createCourse(t, db, "CSE101", faculty.ID, 60)
	foreign := createCourse(t, db, "MAT110", other.ID, 80)
	require.NoError(t, db.Create(&models.Enrollment{CourseID: owned.ID, UserID: student.ID}).Error)

	visible, err := policy.VisibleCourses(ctx, Actor{ID: student.ID, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, owned.ID, visible[0].ID)

	visible, err = policy.VisibleCourses(ctx, Actor{ID: faculty.ID, Role: models.RoleFaculty})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, owned.ID, visible[0].ID)

	visible, err = policy.VisibleCourses(ctx, Actor{ID: admin.ID, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, visible, 2)

	_ = foreign
}

func TestPolicyCourseMutation(t *testing.T) {
	db := setupServiceDB(t)
	policy := testPolicy(db)

	faculty := createUser(t, db, "Dr. Barun", "barun@example.edu", models.RoleFaculty)
	owned := createCourse(t, db, "CSE101", faculty.ID, 60)
	foreign := createCourse(t, db, "MAT110", "someone-else", 80)

	require.NoError(t, policy.AuthorizeCourseMutation(Actor{ID: faculty.ID, Role: models.RoleFaculty}, owned))
	require.ErrorIs(t, policy.AuthorizeCourseMutation(Actor{ID: faculty.ID, Role: models.RoleFaculty}, foreign), ErrNotOwner)
	require.NoError(t, policy.AuthorizeCourseMutation(Actor{ID: "admin", Role: models.RoleAdmin}, foreign))
	require.ErrorIs(t, policy.AuthorizeCourseMutation(Actor{ID: "s", Role: models.RoleStudent}, owned), ErrInsufficientRole)
}

func TestPolicySubmissionRequiresEnrollment(t *testing.T) {
	db := setupServiceDB(t)
	policy := testPolicy(db)
	ctx := context.Background()

	course := createCourse(t, db, "CSE101", "fac-1", 60)
	student := createUser(t, db, "Alice", "alice@example.edu", models.RoleStudent)

	err := policy.AuthorizeSubmission(ctx, Actor{ID: student.ID, Role: models.RoleStudent}, course.ID)
	require.ErrorIs(t, err, ErrNotEnrolled)

	require.NoError(t, db.Create(&models.Enrollment{CourseID: course.ID, UserID: student.ID}).Error)
	require.NoError(t, policy.AuthorizeSubmission(ctx, Actor{ID: student.ID, Role: models.RoleStudent}, course.ID))

	err = policy.AuthorizeSubmission(ctx, Actor{ID: "fac-1", Role: models.RoleFaculty}, course.ID)
	require.ErrorIs(t, err, ErrInsufficientRole)
}

func TestPolicyUserManagementAdminOnly(t *testing.T) {
	db := setupServiceDB(t)
	policy := testPolicy(db)

	require.NoError(t, policy.AuthorizeUserManagement(Actor{ID: "a", Role: models.RoleAdmin}))
	require.ErrorIs(t, policy.AuthorizeUserManagement(Actor{ID: "f", Role: models.RoleFaculty}), ErrInsufficientRole)
	require.ErrorIs(t, policy.AuthorizeUserManagement(Actor{ID: "s", Role: models.RoleStudent}), ErrInsufficientRole)
}
