package dto

import (
	"time"

	"github.com/arkield/campus-api/internal/models"
)

// CalendarEventCreateRequest carries a new institution-wide event.
type CalendarEventCreateRequest struct {
	Title string    `json:"title" validate:"required,max=255"`
	Date  time.Time `json:"date" validate:"required"`
	Type  string    `json:"type" validate:"required,oneof=academic deadline exam holiday"`
}

// CalendarEventResponse serializes a calendar event.
type CalendarEventResponse struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	Type  string    `json:"type"`
}

// NewCalendarEventResponse converts a CalendarEvent model into a DTO.
func NewCalendarEventResponse(model models.CalendarEvent) CalendarEventResponse {
	return CalendarEventResponse{
		ID:    model.ID,
		Title: model.Title,
		Date:  model.Date,
		Type:  string(model.Type),
	}
}

// TimetableSlotResponse serializes one weekly meeting of a course.
type TimetableSlotResponse struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	CourseCode string `json:"course_code,omitempty"`
	Day        int    `json:"day"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Room       string `json:"room"`
}

// NewTimetableSlotResponse converts a TimetableSlot model into a DTO.
func NewTimetableSlotResponse(model models.TimetableSlot) TimetableSlotResponse {
	return TimetableSlotResponse{
		ID:       model.ID,
		CourseID: model.CourseID,
		Day:      model.Day,
		Start:    model.Start,
		End:      model.End,
		Room:     model.Room,
	}
}

// WeeklyGridResponse partitions the visible timetable into seven day
// buckets, Monday=0 through Sunday=6.
type WeeklyGridResponse struct {
	Days [7][]TimetableSlotResponse `json:"days"`
}
