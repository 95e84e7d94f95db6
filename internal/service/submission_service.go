package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// SubmissionService covers student work hand-ins and the staff-facing
// listing of submissions per assignment.
type SubmissionService interface {
	SubmitWork(ctx context.Context, actor Actor, payload dto.SubmitWorkRequest) (dto.SubmissionResponse, error)
	ListByAssignment(ctx context.Context, actor Actor, assignmentID string) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	grades      repository.GradeRepository
	policy      *Policy
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, courses repository.CourseRepository, grades repository.GradeRepository, policy *Policy, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		courses:     courses,
		grades:      grades,
		policy:      policy,
		validator:   validate,
		activity:    activity,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) SubmitWork(ctx context.Context, actor Actor, payload dto.SubmitWorkRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrDanglingReference
		}
		return dto.SubmissionResponse{}, err
	}

	if err := s.policy.AuthorizeSubmission(ctx, actor, assignment.CourseID); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		AssignmentID: assignment.ID,
		UserID:       actor.ID,
		FileName:     strings.TrimSpace(payload.FileName),
		Note:         payload.Note,
		SubmittedAt:  s.now(),
	}
	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Str("submission_id", submission.ID).Str("assignment_id", assignment.ID).Msg("work submitted")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "submission.created",
			EntityType: "submission",
			EntityID:   submission.ID,
			Metadata:   map[string]interface{}{"assignment_id": assignment.ID},
		})
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListByAssignment(ctx context.Context, actor Actor, assignmentID string) ([]dto.SubmissionResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDanglingReference
		}
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, assignment.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDanglingReference
		}
		return nil, err
	}
	if err := s.policy.AuthorizeCourseMutation(actor, course); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		resp := dto.NewSubmissionResponse(submission)
		if grade, err := s.grades.GetBySubmission(ctx, submission.ID); err == nil {
			g := dto.NewGradeResponse(grade)
			resp.Grade = &g
		}
		out = append(out, resp)
	}

	return out, nil
}
