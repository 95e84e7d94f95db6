package dto

import (
	"time"

	"github.com/arkield/campus-api/internal/models"
)

// AssignmentCreateRequest carries a new assignment for a course the actor owns.
type AssignmentCreateRequest struct {
	CourseID     string    `json:"course_id" validate:"required"`
	Title        string    `json:"title" validate:"required,max=255"`
	DueAt        time.Time `json:"due_at" validate:"required"`
	Points       float64   `json:"points" validate:"required,gt=0"`
	Instructions string    `json:"instructions"`
}

// AssignmentResponse serializes an assignment.
type AssignmentResponse struct {
	ID           string    `json:"id"`
	CourseID     string    `json:"course_id"`
	CourseCode   string    `json:"course_code,omitempty"`
	Title        string    `json:"title"`
	DueAt        time.Time `json:"due_at"`
	Points       float64   `json:"points"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:           model.ID,
		CourseID:     model.CourseID,
		Title:        model.Title,
		DueAt:        model.DueAt,
		Points:       model.Points,
		Instructions: model.Instructions,
		CreatedAt:    model.CreatedAt,
	}
}

// SubmitWorkRequest carries a student's hand-in. The file is an opaque name;
// binary upload is handled outside this service.
type SubmitWorkRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	FileName     string `json:"file_name" validate:"required,max=512"`
	Note         string `json:"note"`
}

// SubmissionResponse serializes a submission with its grade, when published.
type SubmissionResponse struct {
	ID           string         `json:"id"`
	AssignmentID string         `json:"assignment_id"`
	UserID       string         `json:"user_id"`
	FileName     string         `json:"file_name"`
	Note         string         `json:"note"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	Grade        *GradeResponse `json:"grade,omitempty"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		UserID:       model.UserID,
		FileName:     model.FileName,
		Note:         model.Note,
		SubmittedAt:  model.SubmittedAt,
	}
}

// GradeSubmissionRequest carries a grade publication for one submission.
type GradeSubmissionRequest struct {
	SubmissionID string  `json:"submission_id" validate:"required"`
	Score        float64 `json:"score" validate:"gte=0"`
	Feedback     string  `json:"feedback"`
}

// GradeResponse serializes a published grade.
type GradeResponse struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	Score        float64   `json:"score"`
	Feedback     string    `json:"feedback"`
	GradedAt     time.Time `json:"graded_at"`
}

// NewGradeResponse converts a Grade model into a DTO.
func NewGradeResponse(model models.Grade) GradeResponse {
	return GradeResponse{
		ID:           model.ID,
		SubmissionID: model.SubmissionID,
		Score:        model.Score,
		Feedback:     model.Feedback,
		GradedAt:     model.GradedAt,
	}
}
