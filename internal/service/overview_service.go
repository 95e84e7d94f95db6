package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

const overviewLimit = 5

func overviewCacheKey(userID string) string {
	return "overview:" + userID
}

// InvalidateOverviews drops the cached overview entries of the given users
// after a mutation changes what they would see. A nil client or an empty id
// set is a no-op; a failed delete only shortens freshness to the TTL, so the
// error is discarded.
func InvalidateOverviews(ctx context.Context, cache *redis.Client, userIDs ...string) {
	if cache == nil {
		return
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id != "" {
			keys = append(keys, overviewCacheKey(id))
		}
	}
	if len(keys) == 0 {
		return
	}

	_ = cache.Del(ctx, keys...).Err()
}

// OverviewService builds the read-only projections: the landing overview and
// the student transcript. Both are recomputed from current state; the
// overview is additionally cached per actor for a short TTL.
type OverviewService interface {
	Overview(ctx context.Context, actor Actor) (dto.OverviewResponse, error)
	Transcript(ctx context.Context, actor Actor) (dto.TranscriptResponse, error)
}

type overviewService struct {
	assignments   repository.AssignmentRepository
	announcements repository.AnnouncementRepository
	submissions   repository.SubmissionRepository
	grades        repository.GradeRepository
	courses       repository.CourseRepository
	policy        *Policy
	cache         *redis.Client
	cacheTTL      time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

// NewOverviewService constructs the view builder. The cache client may be nil.
func NewOverviewService(assignments repository.AssignmentRepository, announcements repository.AnnouncementRepository, submissions repository.SubmissionRepository, grades repository.GradeRepository, courses repository.CourseRepository, policy *Policy, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) OverviewService {
	return &overviewService{
		assignments:   assignments,
		announcements: announcements,
		submissions:   submissions,
		grades:        grades,
		courses:       courses,
		policy:        policy,
		cache:         cache,
		cacheTTL:      ttl,
		logger:        logger.With().Str("component", "overview_service").Logger(),
		now:           time.Now,
	}
}

func (s *overviewService) Overview(ctx context.Context, actor Actor) (dto.OverviewResponse, error) {
	cacheKey := overviewCacheKey(actor.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.OverviewResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("actor_id", actor.ID).Msg("overview cache hit")
				response.CacheHit = true
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read overview cache")
		}
	}

	courses, err := s.policy.VisibleCourses(ctx, actor)
	if err != nil {
		return dto.OverviewResponse{}, err
	}

	codeByID := make(map[string]string, len(courses))
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		codeByID[c.ID] = c.Code
		ids = append(ids, c.ID)
	}

	assignments, err := s.assignments.ListByCourseIDs(ctx, ids)
	if err != nil {
		return dto.OverviewResponse{}, err
	}
	announcements, err := s.announcements.ListByCourseIDs(ctx, ids)
	if err != nil {
		return dto.OverviewResponse{}, err
	}

	response := s.buildOverview(assignments, announcements, codeByID)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store overview cache")
			}
		}
	}

	return response, nil
}

func (s *overviewService) buildOverview(assignments []models.Assignment, announcements []models.Announcement, codeByID map[string]string) dto.OverviewResponse {
	now := s.now()

	upcoming := make([]dto.AssignmentResponse, 0, overviewLimit)
	for _, a := range assignments {
		if !a.IsUpcoming(now) {
			continue
		}
		resp := dto.NewAssignmentResponse(a)
		resp.CourseCode = codeByID[a.CourseID]
		upcoming = append(upcoming, resp)
		if len(upcoming) == overviewLimit {
			break
		}
	}

	latest := make([]dto.AnnouncementResponse, 0, overviewLimit)
	for _, a := range announcements {
		resp := dto.NewAnnouncementResponse(a)
		resp.CourseCode = codeByID[a.CourseID]
		latest = append(latest, resp)
		if len(latest) == overviewLimit {
			break
		}
	}

	return dto.OverviewResponse{
		UpcomingAssignments: upcoming,
		LatestAnnouncements: latest,
	}
}

// Transcript joins the student's submissions to assignments, courses and
// grades. The cumulative percentage covers graded rows only: ungraded
// submissions appear in the listing but contribute to neither sum.
func (s *overviewService) Transcript(ctx context.Context, actor Actor) (dto.TranscriptResponse, error) {
	if actor.Role != models.RoleStudent {
		return dto.TranscriptResponse{}, ErrInsufficientRole
	}

	submissions, err := s.submissions.ListByUser(ctx, actor.ID)
	if err != nil {
		return dto.TranscriptResponse{}, err
	}

	submissionIDs := make([]string, 0, len(submissions))
	for _, sub := range submissions {
		submissionIDs = append(submissionIDs, sub.ID)
	}
	grades, err := s.grades.ListBySubmissionIDs(ctx, submissionIDs)
	if err != nil {
		return dto.TranscriptResponse{}, err
	}
	gradeBySubmission := make(map[string]models.Grade, len(grades))
	for _, g := range grades {
		gradeBySubmission[g.SubmissionID] = g
	}

	response := dto.TranscriptResponse{Rows: make([]dto.TranscriptRow, 0, len(submissions))}
	for _, sub := range submissions {
		row := dto.TranscriptRow{SubmissionID: sub.ID}

		// Tolerate dangling references: missing assignments or courses
		// render as empty fields, never as a failure.
		assignment, err := s.assignments.GetByID(ctx, sub.AssignmentID)
		if err == nil {
			row.Assignment = assignment.Title
			row.Points = assignment.Points
			if course, err := s.courses.GetByID(ctx, assignment.CourseID); err == nil {
				row.CourseCode = course.Code
			}
		}

		if grade, ok := gradeBySubmission[sub.ID]; ok {
			score := grade.Score
			row.Score = &score
			row.Feedback = grade.Feedback
			row.Graded = true
			response.TotalEarned += score
			response.TotalPoints += row.Points
		}

		response.Rows = append(response.Rows, row)
	}

	if response.TotalPoints > 0 {
		response.Percentage = int(math.Round(100 * response.TotalEarned / response.TotalPoints))
	}

	return response, nil
}
