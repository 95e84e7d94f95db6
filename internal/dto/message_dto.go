package dto

import (
	"time"

	"github.com/arkield/campus-api/internal/models"
)

// ThreadCreateRequest starts a new course-scoped discussion thread.
type ThreadCreateRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required,max=255"`
	Body     string `json:"body" validate:"required"`
}

// ThreadReplyRequest appends a message to an existing thread.
type ThreadReplyRequest struct {
	ThreadID string `json:"thread_id" validate:"required"`
	Body     string `json:"body" validate:"required"`
}

// MessageResponse serializes one discussion message.
type MessageResponse struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"thread_id"`
	CourseID   string    `json:"course_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewMessageResponse converts a Message model into a DTO.
func NewMessageResponse(model models.Message) MessageResponse {
	return MessageResponse{
		ID:        model.ID,
		ThreadID:  model.ThreadID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Body:      model.Body,
		AuthorID:  model.AuthorID,
		CreatedAt: model.CreatedAt,
	}
}

// ThreadResponse is the derived grouping of messages sharing a thread id.
// The title comes from the oldest message; messages are ascending by time.
type ThreadResponse struct {
	ThreadID   string            `json:"thread_id"`
	CourseID   string            `json:"course_id"`
	CourseCode string            `json:"course_code,omitempty"`
	Title      string            `json:"title"`
	Messages   []MessageResponse `json:"messages"`
}
