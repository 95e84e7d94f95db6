package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// AssignmentService covers assignment creation and visibility-scoped listing.
type AssignmentService interface {
	Create(ctx context.Context, actor Actor, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	policy      *Policy
	validator   *validator.Validate
	activity    ActivityRecorder
	cache       *redis.Client
	logger      zerolog.Logger
}

// NewAssignmentService constructs the assignment service. The cache client
// may be nil.
func NewAssignmentService(assignments repository.AssignmentRepository, courses repository.CourseRepository, enrollments repository.EnrollmentRepository, policy *Policy, validate *validator.Validate, activity ActivityRecorder, cache *redis.Client, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		courses:     courses,
		enrollments: enrollments,
		policy:      policy,
		validator:   validate,
		activity:    activity,
		cache:       cache,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

// invalidateCourseOverviews drops the cached overviews of everyone whose
// landing view includes the course: its enrolled students and its owner.
func (s *assignmentService) invalidateCourseOverviews(ctx context.Context, course models.Course) {
	if s.cache == nil {
		return
	}

	ids := []string{course.FacultyID}
	if enrollments, err := s.enrollments.ListByCourse(ctx, course.ID); err == nil {
		for _, e := range enrollments {
			ids = append(ids, e.UserID)
		}
	}
	InvalidateOverviews(ctx, s.cache, ids...)
}

func (s *assignmentService) Create(ctx context.Context, actor Actor, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}
	if !actor.IsStaff() {
		return dto.AssignmentResponse{}, ErrInsufficientRole
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrDanglingReference
		}
		return dto.AssignmentResponse{}, err
	}
	if err := s.policy.AuthorizeCourseMutation(actor, course); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		CourseID:     course.ID,
		Title:        strings.TrimSpace(payload.Title),
		DueAt:        payload.DueAt,
		Points:       payload.Points,
		Instructions: payload.Instructions,
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.invalidateCourseOverviews(ctx, course)
	s.logger.Info().Str("assignment_id", assignment.ID).Str("course_id", course.ID).Msg("assignment created")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "assignment.created",
			EntityType: "assignment",
			EntityID:   assignment.ID,
			Metadata:   map[string]interface{}{"course_id": course.ID, "points": assignment.Points},
		})
	}

	resp := dto.NewAssignmentResponse(assignment)
	resp.CourseCode = course.Code
	return resp, nil
}

func (s *assignmentService) List(ctx context.Context, actor Actor) ([]dto.AssignmentResponse, error) {
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

	assignments, err := s.assignments.ListByCourseIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp := dto.NewAssignmentResponse(a)
		resp.CourseCode = codeByID[a.CourseID]
		out = append(out, resp)
	}

	return out, nil
}
