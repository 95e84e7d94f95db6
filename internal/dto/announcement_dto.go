package dto

import (
	"time"

	"github.com/arkield/campus-api/internal/models"
)

// AnnouncementCreateRequest carries a new course notice.
type AnnouncementCreateRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required,max=255"`
	Body     string `json:"body" validate:"required"`
}

// AnnouncementResponse serializes an announcement.
type AnnouncementResponse struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	CourseCode string    `json:"course_code,omitempty"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAnnouncementResponse converts an Announcement model into a DTO.
func NewAnnouncementResponse(model models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Body:      model.Body,
		CreatedAt: model.CreatedAt,
	}
}
