package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
)

func setupGradingFixture(t *testing.T) (GradingService, *gorm.DB, Actor, models.Submission) {
	t.Helper()
	db := setupServiceDB(t)
	svc := NewGradingService(db, testPolicy(db), testValidate(), noopRecorder{}, testLogger())

	faculty := createUser(t, db, "Dr. Barun", "barun@example.edu", models.RoleFaculty)
	student := createUser(t, db, "Alice", "alice@example.edu", models.RoleStudent)
	course := createCourse(t, db, "CSE101", faculty.ID, 60)

	assignment := models.Assignment{CourseID: course.ID, Title: "HW1", DueAt: time.Now().AddDate(0, 0, 7), Points: 100}
	require.NoError(t, db.Create(&assignment).Error)

	submission := models.Submission{AssignmentID: assignment.ID, UserID: student.ID, FileName: "hw1.pdf", SubmittedAt: time.Now()}
	require.NoError(t, db.Create(&submission).Error)

	return svc, db, Actor{ID: faculty.ID, Role: models.RoleFaculty}, submission
}

func TestGradingServicePublish(t *testing.T) {
	svc, _, grader, submission := setupGradingFixture(t)

	grade, err := svc.Grade(context.Background(), grader, dto.GradeSubmissionRequest{
		SubmissionID: submission.ID,
		Score:        85,
		Feedback:     "Good work",
	})
	require.NoError(t, err)
	require.Equal(t, submission.ID, grade.SubmissionID)
	require.Equal(t, 85.0, grade.Score)
	require.Equal(t, "Good work", grade.Feedback)
	require.False(t, grade.GradedAt.IsZero())
}

func TestGradingServiceAlreadyGraded(t *testing.T) {
	svc, db, grader, submission := setupGradingFixture(t)
	ctx := context.Background()

	_, err := svc.Grade(ctx, grader, dto.GradeSubmissionRequest{SubmissionID: submission.ID, Score: 85})
	require.NoError(t, err)

	_, err = svc.Grade(ctx, grader, dto.GradeSubmissionRequest{SubmissionID: submission.ID, Score: 40})
	require.ErrorIs(t, err, ErrAlreadyGraded)

	var persisted models.Grade
	require.NoError(t, db.Where("submission_id = ?", submission.ID).First(&persisted).Error)
	require.Equal(t, 85.0, persisted.Score)
}

func TestGradingServiceGuards(t *testing.T) {
	svc, _, _, submission := setupGradingFixture(t)
	ctx := context.Background()

	_, err := svc.Grade(ctx, Actor{ID: "s-1", Role: models.RoleStudent}, dto.GradeSubmissionRequest{SubmissionID: submission.ID, Score: 50})
	require.ErrorIs(t, err, ErrInsufficientRole)

	_, err = svc.Grade(ctx, Actor{ID: "other-fac", Role: models.RoleFaculty}, dto.GradeSubmissionRequest{SubmissionID: submission.ID, Score: 50})
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Grade(ctx, Actor{ID: "a", Role: models.RoleAdmin}, dto.GradeSubmissionRequest{SubmissionID: "missing", Score: 50})
	require.ErrorIs(t, err, ErrDanglingReference)

	_, err = svc.Grade(ctx, Actor{ID: "a", Role: models.RoleAdmin}, dto.GradeSubmissionRequest{SubmissionID: submission.ID, Score: -5})
	require.Error(t, err)
}
