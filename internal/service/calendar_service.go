package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// CalendarService covers institution-wide events and the weekly timetable
// grid derived from the actor's visible courses.
type CalendarService interface {
	AddEvent(ctx context.Context, actor Actor, payload dto.CalendarEventCreateRequest) (dto.CalendarEventResponse, error)
	ListEvents(ctx context.Context) ([]dto.CalendarEventResponse, error)
	WeeklyGrid(ctx context.Context, actor Actor) (dto.WeeklyGridResponse, error)
}

type calendarService struct {
	calendar  repository.CalendarRepository
	policy    *Policy
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewCalendarService constructs the calendar service.
func NewCalendarService(calendar repository.CalendarRepository, policy *Policy, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) CalendarService {
	return &calendarService{
		calendar:  calendar,
		policy:    policy,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "calendar_service").Logger(),
	}
}

func (s *calendarService) AddEvent(ctx context.Context, actor Actor, payload dto.CalendarEventCreateRequest) (dto.CalendarEventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CalendarEventResponse{}, err
	}
	if err := s.policy.AuthorizeCalendarMutation(actor); err != nil {
		return dto.CalendarEventResponse{}, err
	}

	event := models.CalendarEvent{
		Title: strings.TrimSpace(payload.Title),
		Date:  payload.Date,
		Type:  models.EventType(payload.Type),
	}
	if err := s.calendar.CreateEvent(ctx, &event); err != nil {
		return dto.CalendarEventResponse{}, err
	}

	s.logger.Info().Str("event_id", event.ID).Str("type", payload.Type).Msg("calendar event added")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "calendar_event.created",
			EntityType: "calendar_event",
			EntityID:   event.ID,
			Metadata:   map[string]interface{}{"type": payload.Type},
		})
	}

	return dto.NewCalendarEventResponse(event), nil
}

func (s *calendarService) ListEvents(ctx context.Context) ([]dto.CalendarEventResponse, error) {
	events, err := s.calendar.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CalendarEventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, dto.NewCalendarEventResponse(event))
	}

	return out, nil
}

// WeeklyGrid buckets the visible timetable slots Monday=0 through Sunday=6.
// Overlapping slots within a day are not detected.
func (s *calendarService) WeeklyGrid(ctx context.Context, actor Actor) (dto.WeeklyGridResponse, error) {
	courses, err := s.policy.VisibleCourses(ctx, actor)
	if err != nil {
		return dto.WeeklyGridResponse{}, err
	}

	codeByID := make(map[string]string, len(courses))
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		codeByID[c.ID] = c.Code
		ids = append(ids, c.ID)
	}

	slots, err := s.calendar.ListSlotsByCourseIDs(ctx, ids)
	if err != nil {
		return dto.WeeklyGridResponse{}, err
	}

	var grid dto.WeeklyGridResponse
	for _, slot := range slots {
		if slot.Day < 0 || slot.Day > 6 {
			continue
		}
		resp := dto.NewTimetableSlotResponse(slot)
		resp.CourseCode = codeByID[slot.CourseID]
		grid.Days[slot.Day] = append(grid.Days[slot.Day], resp)
	}

	return grid, nil
}
