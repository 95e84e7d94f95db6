package dto

import (
	"time"

	"github.com/arkield/campus-api/internal/models"
)

// CourseCreateRequest carries a new course definition.
type CourseCreateRequest struct {
	Code     string `json:"code" validate:"required,max=32"`
	Title    string `json:"title" validate:"required,max=255"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
	Credits  int    `json:"credits" validate:"required,gt=0"`
	// FacultyID is honoured only for admin actors; faculty always own
	// the courses they create.
	FacultyID string `json:"faculty_id" validate:"omitempty,uuid4"`
}

// CourseResponse serializes a course together with derived seat usage.
type CourseResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	FacultyID   string    `json:"faculty_id"`
	FacultyName string    `json:"faculty_name,omitempty"`
	Capacity    int       `json:"capacity"`
	Credits     int       `json:"credits"`
	Enrolled    int64     `json:"enrolled"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:        model.ID,
		Code:      model.Code,
		Title:     model.Title,
		FacultyID: model.FacultyID,
		Capacity:  model.Capacity,
		Credits:   model.Credits,
		CreatedAt: model.CreatedAt,
	}
}

// EnrollmentResponse serializes a course membership.
type EnrollmentResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEnrollmentResponse converts an Enrollment model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		UserID:    model.UserID,
		CreatedAt: model.CreatedAt,
	}
}
