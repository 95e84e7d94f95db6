package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// MessageService covers course-scoped discussion threads. Threads are not
// stored: they are derived by grouping messages on thread id.
type MessageService interface {
	PostThread(ctx context.Context, actor Actor, payload dto.ThreadCreateRequest) (dto.MessageResponse, error)
	Reply(ctx context.Context, actor Actor, payload dto.ThreadReplyRequest) (dto.MessageResponse, error)
	ListThreads(ctx context.Context, actor Actor) ([]dto.ThreadResponse, error)
}

type messageService struct {
	messages  repository.MessageRepository
	courses   repository.CourseRepository
	users     repository.UserRepository
	policy    *Policy
	validator *validator.Validate
	activity  ActivityRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewMessageService constructs the discussion service.
func NewMessageService(messages repository.MessageRepository, courses repository.CourseRepository, users repository.UserRepository, policy *Policy, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) MessageService {
	return &messageService{
		messages:  messages,
		courses:   courses,
		users:     users,
		policy:    policy,
		validator: validate,
		activity:  activity,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "message_service").Logger(),
	}
}

func (s *messageService) PostThread(ctx context.Context, actor Actor, payload dto.ThreadCreateRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MessageResponse{}, err
	}
	if !actor.IsStaff() {
		return dto.MessageResponse{}, ErrInsufficientRole
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrDanglingReference
		}
		return dto.MessageResponse{}, err
	}
	if err := s.policy.AuthorizeCourseMutation(actor, course); err != nil {
		return dto.MessageResponse{}, err
	}

	message := models.Message{
		ThreadID: uuid.NewString(),
		CourseID: course.ID,
		Title:    strings.TrimSpace(payload.Title),
		Body:     s.sanitizer.Sanitize(payload.Body),
		AuthorID: actor.ID,
	}
	if err := s.messages.Create(ctx, &message); err != nil {
		return dto.MessageResponse{}, err
	}

	s.logger.Info().Str("thread_id", message.ThreadID).Str("course_id", course.ID).Msg("thread started")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "thread.started",
			EntityType: "message",
			EntityID:   message.ID,
			Metadata:   map[string]interface{}{"course_id": course.ID, "thread_id": message.ThreadID},
		})
	}

	return dto.NewMessageResponse(message), nil
}

func (s *messageService) Reply(ctx context.Context, actor Actor, payload dto.ThreadReplyRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MessageResponse{}, err
	}
	if !actor.IsStaff() {
		return dto.MessageResponse{}, ErrInsufficientRole
	}

	// Replies inherit course and title from the thread's first message.
	first, err := s.messages.FirstInThread(ctx, payload.ThreadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrDanglingReference
		}
		return dto.MessageResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, first.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrDanglingReference
		}
		return dto.MessageResponse{}, err
	}
	if err := s.policy.AuthorizeCourseMutation(actor, course); err != nil {
		return dto.MessageResponse{}, err
	}

	message := models.Message{
		ThreadID: first.ThreadID,
		CourseID: first.CourseID,
		Title:    first.Title,
		Body:     s.sanitizer.Sanitize(payload.Body),
		AuthorID: actor.ID,
	}
	if err := s.messages.Create(ctx, &message); err != nil {
		return dto.MessageResponse{}, err
	}

	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "thread.replied",
			EntityType: "message",
			EntityID:   message.ID,
			Metadata:   map[string]interface{}{"thread_id": message.ThreadID},
		})
	}

	return dto.NewMessageResponse(message), nil
}

// ListThreads groups the visible messages by thread id. A thread takes its
// title from its oldest message; messages are ascending by creation time.
func (s *messageService) ListThreads(ctx context.Context, actor Actor) ([]dto.ThreadResponse, error) {
	courses, err := s.policy.VisibleCourses(ctx, actor)
	if err != nil {
		return nil, err
	}

	codeByID := make(map[string]string, len(courses))
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		codeByID[c.ID] = c.Code
		ids = append(ids, c.ID)
	}

	messages, err := s.messages.ListByCourseIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	nameByID := map[string]string{}
	if users, err := s.users.List(ctx); err == nil {
		for _, u := range users {
			nameByID[u.ID] = u.Name
		}
	}

	grouped := map[string]*dto.ThreadResponse{}
	order := make([]string, 0)
	for _, message := range messages {
		thread, ok := grouped[message.ThreadID]
		if !ok {
			thread = &dto.ThreadResponse{
				ThreadID:   message.ThreadID,
				CourseID:   message.CourseID,
				CourseCode: codeByID[message.CourseID],
				Title:      message.Title,
			}
			grouped[message.ThreadID] = thread
			order = append(order, message.ThreadID)
		}

		resp := dto.NewMessageResponse(message)
		resp.AuthorName = nameByID[message.AuthorID]
		thread.Messages = append(thread.Messages, resp)
	}

	out := make([]dto.ThreadResponse, 0, len(order))
	for _, threadID := range order {
		thread := grouped[threadID]
		sort.SliceStable(thread.Messages, func(i, j int) bool {
			return thread.Messages[i].CreatedAt.Before(thread.Messages[j].CreatedAt)
		})
		thread.Title = thread.Messages[0].Title
		out = append(out, *thread)
	}

	return out, nil
}
