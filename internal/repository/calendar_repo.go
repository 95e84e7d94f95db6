package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/models"
)

// CalendarRepository defines persistence operations for institution-wide
// calendar events and the weekly timetable.
type CalendarRepository interface {
	CreateEvent(ctx context.Context, event *models.CalendarEvent) error
	ListEvents(ctx context.Context) ([]models.CalendarEvent, error)
	CreateSlot(ctx context.Context, slot *models.TimetableSlot) error
	ListSlotsByCourseIDs(ctx context.Context, courseIDs []string) ([]models.TimetableSlot, error)
}

type calendarRepository struct {
	db *gorm.DB
}

// NewCalendarRepository instantiates a GORM-backed repository.
func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *calendarRepository) ListEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	if err := r.db.WithContext(ctx).Order("date ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *calendarRepository) CreateSlot(ctx context.Context, slot *models.TimetableSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *calendarRepository) ListSlotsByCourseIDs(ctx context.Context, courseIDs []string) ([]models.TimetableSlot, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var slots []models.TimetableSlot
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("day ASC, start ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}

	return slots, nil
}
