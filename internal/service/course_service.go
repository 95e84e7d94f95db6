package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// CourseService covers course creation and visibility-scoped listing.
type CourseService interface {
	Create(ctx context.Context, actor Actor, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.CourseResponse, error)
}

type courseService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	users       repository.UserRepository
	policy      *Policy
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(courses repository.CourseRepository, enrollments repository.EnrollmentRepository, users repository.UserRepository, policy *Policy, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:     courses,
		enrollments: enrollments,
		users:       users,
		policy:      policy,
		validator:   validate,
		activity:    activity,
		logger:      logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, actor Actor, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}
	if !actor.IsStaff() {
		return dto.CourseResponse{}, ErrInsufficientRole
	}

	facultyID := actor.ID
	if actor.Role == models.RoleAdmin && payload.FacultyID != "" {
		facultyID = payload.FacultyID
	}
	if _, err := s.users.GetByID(ctx, facultyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrDanglingReference
		}
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Code:      strings.ToUpper(strings.TrimSpace(payload.Code)),
		Title:     strings.TrimSpace(payload.Title),
		FacultyID: facultyID,
		Capacity:  payload.Capacity,
		Credits:   payload.Credits,
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Str("course_id", course.ID).Str("code", course.Code).Msg("course created")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "course.created",
			EntityType: "course",
			EntityID:   course.ID,
			Metadata:   map[string]interface{}{"code": course.Code},
		})
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context, actor Actor) ([]dto.CourseResponse, error) {
	courses, err := s.policy.VisibleCourses(ctx, actor)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		resp := dto.NewCourseResponse(course)

		count, err := s.enrollments.CountByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		resp.Enrolled = count

		// A course may reference a removed faculty account; render it
		// absent rather than failing the whole listing.
		if faculty, err := s.users.GetByID(ctx, course.FacultyID); err == nil {
			resp.FacultyName = faculty.Name
		}

		out = append(out, resp)
	}

	return out, nil
}
