package service

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/observability"
	"github.com/arkield/campus-api/internal/repository"
)

// EnrollmentService covers enroll and drop. Both run inside a transaction so
// the capacity and uniqueness checks observe a consistent snapshot.
type EnrollmentService interface {
	Enroll(ctx context.Context, actor Actor, courseID string) (dto.EnrollmentResponse, error)
	Drop(ctx context.Context, actor Actor, courseID string) error
}

type enrollmentService struct {
	db       *gorm.DB
	policy   *Policy
	activity ActivityRecorder
	cache    *redis.Client
	logger   zerolog.Logger
}

// NewEnrollmentService constructs the enrollment service. The cache client
// may be nil.
func NewEnrollmentService(db *gorm.DB, policy *Policy, activity ActivityRecorder, cache *redis.Client, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		db:       db,
		policy:   policy,
		activity: activity,
		cache:    cache,
		logger:   logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, actor Actor, courseID string) (dto.EnrollmentResponse, error) {
	tracer := otel.Tracer("github.com/arkield/campus-api/internal/service/enrollment")
	ctx, span := tracer.Start(ctx, "enrollment.create")
	span.SetAttributes(
		attribute.String("enrollment.course_id", courseID),
		attribute.String("enrollment.user_id", actor.ID),
	)
	defer span.End()

	if err := s.policy.AuthorizeEnrollmentChange(actor, actor.ID); err != nil {
		span.SetStatus(codes.Error, "denied")
		return dto.EnrollmentResponse{}, err
	}

	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := repository.NewCourseRepository(tx)
		enrollments := repository.NewEnrollmentRepository(tx)

		course, err := courses.GetByID(ctx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDanglingReference
			}
			return err
		}

		exists, err := enrollments.Exists(ctx, course.ID, actor.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateEnrollment
		}

		count, err := enrollments.CountByCourse(ctx, course.ID)
		if err != nil {
			return err
		}
		if count >= int64(course.Capacity) {
			return ErrCapacityExceeded
		}

		enrollment = models.Enrollment{CourseID: course.ID, UserID: actor.ID}
		return enrollments.Create(ctx, &enrollment)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enroll_failed")
		observability.EnrollmentOutcomes().WithLabelValues(enrollOutcome(err)).Inc()
		return dto.EnrollmentResponse{}, err
	}

	observability.EnrollmentOutcomes().WithLabelValues("enrolled").Inc()
	InvalidateOverviews(ctx, s.cache, actor.ID)
	s.logger.Info().Str("course_id", courseID).Str("user_id", actor.ID).Msg("student enrolled")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "enrollment.created",
			EntityType: "enrollment",
			EntityID:   enrollment.ID,
			Metadata:   map[string]interface{}{"course_id": courseID},
		})
	}

	return dto.NewEnrollmentResponse(enrollment), nil
}

func enrollOutcome(err error) string {
	switch {
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrDuplicateEnrollment):
		return "duplicate"
	case errors.Is(err, ErrDanglingReference):
		return "unknown_course"
	default:
		return "error"
	}
}

func (s *enrollmentService) Drop(ctx context.Context, actor Actor, courseID string) error {
	if err := s.policy.AuthorizeEnrollmentChange(actor, actor.ID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewEnrollmentRepository(tx).Delete(ctx, courseID, actor.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	InvalidateOverviews(ctx, s.cache, actor.ID)
	s.logger.Info().Str("course_id", courseID).Str("user_id", actor.ID).Msg("enrollment dropped")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "enrollment.dropped",
			EntityType: "enrollment",
			Metadata:   map[string]interface{}{"course_id": courseID},
		})
	}

	return nil
}
