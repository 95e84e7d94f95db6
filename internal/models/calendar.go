package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventType classifies institution-wide calendar events.
type EventType string

const (
	EventTypeAcademic EventType = "academic"
	EventTypeDeadline EventType = "deadline"
	EventTypeExam     EventType = "exam"
	EventTypeHoliday  EventType = "holiday"
)

// Valid reports whether the event type is one of the known kinds.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeAcademic, EventTypeDeadline, EventTypeExam, EventTypeHoliday:
		return true
	}
	return false
}

// CalendarEvent is an institution-wide (not course-scoped) dated event.
type CalendarEvent struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Date      time.Time `gorm:"not null" json:"date"`
	Type      EventType `gorm:"size:32;not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *CalendarEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// TimetableSlot defines one recurring weekly meeting of a course.
// Day runs Monday=0 through Sunday=6.
type TimetableSlot struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  string    `gorm:"type:uuid;index;not null" json:"course_id"`
	Day       int       `gorm:"not null" json:"day"`
	Start     string    `gorm:"size:8;not null" json:"start"`
	End       string    `gorm:"size:8;not null" json:"end"`
	Room      string    `gorm:"size:64" json:"room"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *TimetableSlot) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
