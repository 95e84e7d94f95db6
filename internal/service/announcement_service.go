package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// AnnouncementService posts and lists course notices. Bodies may carry
// limited markup and are sanitized before storage.
type AnnouncementService interface {
	Post(ctx context.Context, actor Actor, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.AnnouncementResponse, error)
	ListByCourse(ctx context.Context, actor Actor, courseID string) ([]dto.AnnouncementResponse, error)
}

type announcementService struct {
	announcements repository.AnnouncementRepository
	courses       repository.CourseRepository
	enrollments   repository.EnrollmentRepository
	policy        *Policy
	validator     *validator.Validate
	activity      ActivityRecorder
	sanitizer     *bluemonday.Policy
	cache         *redis.Client
	logger        zerolog.Logger
}

// NewAnnouncementService constructs the announcement service. The cache
// client may be nil.
func NewAnnouncementService(announcements repository.AnnouncementRepository, courses repository.CourseRepository, enrollments repository.EnrollmentRepository, policy *Policy, validate *validator.Validate, activity ActivityRecorder, cache *redis.Client, logger zerolog.Logger) AnnouncementService {
	return &announcementService{
		announcements: announcements,
		courses:       courses,
		enrollments:   enrollments,
		policy:        policy,
		validator:     validate,
		activity:      activity,
		sanitizer:     bluemonday.UGCPolicy(),
		cache:         cache,
		logger:        logger.With().Str("component", "announcement_service").Logger(),
	}
}

// invalidateCourseOverviews drops the cached overviews of everyone whose
// landing view includes the course: its enrolled students and its owner.
func (s *announcementService) invalidateCourseOverviews(ctx context.Context, course models.Course) {
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

func (s *announcementService) Post(ctx context.Context, actor Actor, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}
	if !actor.IsStaff() {
		return dto.AnnouncementResponse{}, ErrInsufficientRole
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrDanglingReference
		}
		return dto.AnnouncementResponse{}, err
	}
	if err := s.policy.AuthorizeCourseMutation(actor, course); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	announcement := models.Announcement{
		CourseID: course.ID,
		Title:    strings.TrimSpace(payload.Title),
		Body:     s.sanitizer.Sanitize(payload.Body),
	}
	if err := s.announcements.Create(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.invalidateCourseOverviews(ctx, course)
	s.logger.Info().Str("announcement_id", announcement.ID).Str("course_id", course.ID).Msg("announcement posted")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "announcement.posted",
			EntityType: "announcement",
			EntityID:   announcement.ID,
			Metadata:   map[string]interface{}{"course_id": course.ID},
		})
	}

	resp := dto.NewAnnouncementResponse(announcement)
	resp.CourseCode = course.Code
	return resp, nil
}

func (s *announcementService) List(ctx context.Context, actor Actor) ([]dto.AnnouncementResponse, error) {
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

	announcements, err := s.announcements.ListByCourseIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AnnouncementResponse, 0, len(announcements))
	for _, a := range announcements {
		resp := dto.NewAnnouncementResponse(a)
		resp.CourseCode = codeByID[a.CourseID]
		out = append(out, resp)
	}

	return out, nil
}

func (s *announcementService) ListByCourse(ctx context.Context, actor Actor, courseID string) ([]dto.AnnouncementResponse, error) {
	ids, err := s.policy.VisibleCourseIDs(ctx, actor)
	if err != nil {
		return nil, err
	}

	visible := false
	for _, id := range ids {
		if id == courseID {
			visible = true
			break
		}
	}
	if !visible {
		return nil, ErrNotEnrolled
	}

	announcements, err := s.announcements.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AnnouncementResponse, 0, len(announcements))
	for _, a := range announcements {
		out = append(out, dto.NewAnnouncementResponse(a))
	}

	return out, nil
}
