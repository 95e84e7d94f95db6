package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// GradingService publishes grades. A submission may be graded exactly once;
// the published grade is immutable.
type GradingService interface {
	Grade(ctx context.Context, actor Actor, payload dto.GradeSubmissionRequest) (dto.GradeResponse, error)
}

type gradingService struct {
	db        *gorm.DB
	policy    *Policy
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(db *gorm.DB, policy *Policy, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) GradingService {
	return &gradingService{
		db:        db,
		policy:    policy,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "grading_service").Logger(),
		now:       time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, actor Actor, payload dto.GradeSubmissionRequest) (dto.GradeResponse, error) {
	tracer := otel.Tracer("github.com/arkield/campus-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.publish")
	span.SetAttributes(
		attribute.String("grading.submission_id", payload.SubmissionID),
		attribute.String("grading.actor_id", actor.ID),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.GradeResponse{}, err
	}
	if !actor.IsStaff() {
		span.SetStatus(codes.Error, "denied")
		return dto.GradeResponse{}, ErrInsufficientRole
	}

	var grade models.Grade
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		submissions := repository.NewSubmissionRepository(tx)
		assignments := repository.NewAssignmentRepository(tx)
		courses := repository.NewCourseRepository(tx)
		grades := repository.NewGradeRepository(tx)

		submission, err := submissions.GetByID(ctx, payload.SubmissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDanglingReference
			}
			return err
		}

		assignment, err := assignments.GetByID(ctx, submission.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDanglingReference
			}
			return err
		}

		course, err := courses.GetByID(ctx, assignment.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDanglingReference
			}
			return err
		}
		if err := s.policy.AuthorizeCourseMutation(actor, course); err != nil {
			return err
		}

		graded, err := grades.ExistsForSubmission(ctx, submission.ID)
		if err != nil {
			return err
		}
		if graded {
			return ErrAlreadyGraded
		}

		grade = models.Grade{
			SubmissionID: submission.ID,
			Score:        payload.Score,
			Feedback:     strings.TrimSpace(payload.Feedback),
			GradedAt:     s.now(),
		}
		return grades.Create(ctx, &grade)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_failed")
		return dto.GradeResponse{}, err
	}

	span.SetAttributes(attribute.Float64("grading.score", grade.Score))
	s.logger.Info().Str("grade_id", grade.ID).Str("submission_id", grade.SubmissionID).Msg("grade published")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "submission.graded",
			EntityType: "grade",
			EntityID:   grade.ID,
			Metadata:   map[string]interface{}{"submission_id": grade.SubmissionID, "score": grade.Score},
		})
	}

	return dto.NewGradeResponse(grade), nil
}
