package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

func setupMessageService(t *testing.T, db *gorm.DB) MessageService {
	t.Helper()
	return NewMessageService(
		repository.NewMessageRepository(db),
		repository.NewCourseRepository(db),
		repository.NewUserRepository(db),
		testPolicy(db),
		testValidate(),
		noopRecorder{},
		testLogger(),
	)
}

func TestMessageServiceThreadLifecycle(t *testing.T) {
	db := setupServiceDB(t)
	svc := setupMessageService(t, db)
	ctx := context.Background()

	faculty := createUser(t, db, "Dr. Barun", "barun@example.edu", models.RoleFaculty)
	student := createUser(t, db, "Alice", "alice@example.edu", models.RoleStudent)
	course := createCourse(t, db, "CSE101", faculty.ID, 60)
	require.NoError(t, db.Create(&models.Enrollment{CourseID: course.ID, UserID: student.ID}).Error)

	staff := Actor{ID: faculty.ID, Role: models.RoleFaculty}

	root, err := svc.PostThread(ctx, staff, dto.ThreadCreateRequest{
		CourseID: course.ID,
		Title:    "Week 1 questions",
		Body:     "Post your questions here.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, root.ThreadID)

	reply, err := svc.Reply(ctx, staff, dto.ThreadReplyRequest{ThreadID: root.ThreadID, Body: "Office hours moved."})
	require.NoError(t, err)
	require.Equal(t, root.ThreadID, reply.ThreadID)
	require.Equal(t, "Week 1 questions", reply.Title)

	// enrolled students read the thread but may not post to it
	threads, err := svc.ListThreads(ctx, Actor{ID: student.ID, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, threads, 1)
	require.Equal(t, "Week 1 questions", threads[0].Title)
	require.Equal(t, "CSE101", threads[0].CourseCode)
	require.Len(t, threads[0].Messages, 2)
	require.Equal(t, root.ID, threads[0].Messages[0].ID)
	require.Equal(t, "Dr. Barun", threads[0].Messages[0].AuthorName)

	_, err = svc.PostThread(ctx, Actor{ID: student.ID, Role: models.RoleStudent}, dto.ThreadCreateRequest{
		CourseID: course.ID,
		Title:    "A question",
		Body:     "hello",
	})
	require.ErrorIs(t, err, ErrInsufficientRole)

	_, err = svc.Reply(ctx, Actor{ID: student.ID, Role: models.RoleStudent}, dto.ThreadReplyRequest{ThreadID: root.ThreadID, Body: "me too"})
	require.ErrorIs(t, err, ErrInsufficientRole)
}

func TestMessageServiceSanitizesBody(t *testing.T) {
	db := setupServiceDB(t)
	svc := setupMessageService(t, db)

	faculty := createUser(t, db, "Dr. Barun", "barun@example.edu", models.RoleFaculty)
	course := createCourse(t, db, "CSE101", faculty.ID, 60)

	message, err := svc.PostThread(context.Background(), Actor{ID: faculty.ID, Role: models.RoleFaculty}, dto.ThreadCreateRequest{
		CourseID: course.ID,
		Title:    "Heads up",
		Body:     `<script>alert("x")</script><b>bold</b>`,
	})
	require.NoError(t, err)
	require.NotContains(t, message.Body, "<script>")
	require.Contains(t, message.Body, "<b>bold</b>")
}

func TestMessageServiceUnknownThread(t *testing.T) {
	db := setupServiceDB(t)
	svc := setupMessageService(t, db)

	faculty := createUser(t, db, "Dr. Barun", "barun@example.edu", models.RoleFaculty)

	_, err := svc.Reply(context.Background(), Actor{ID: faculty.ID, Role: models.RoleFaculty}, dto.ThreadReplyRequest{ThreadID: "missing", Body: "hello"})
	require.ErrorIs(t, err, ErrDanglingReference)
}
