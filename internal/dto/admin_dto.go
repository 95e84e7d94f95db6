package dto

import (
	"time"

	"github.com/arkield/campus-api/internal/models"
)

// UserCreateRequest carries an admin-created account.
type UserCreateRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"required,oneof=student faculty admin"`
}

// RoleChangeRequest changes the role of an existing account.
type RoleChangeRequest struct {
	Role string `json:"role" validate:"required,oneof=student faculty admin"`
}

// ActivityResponse serializes one audit log entry.
type ActivityResponse struct {
	ID         string                 `json:"id"`
	ActorID    string                 `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewActivityResponse converts an ActivityLog model into a DTO.
func NewActivityResponse(model models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         model.ID,
		ActorID:    model.ActorID,
		ActorRole:  model.ActorRole,
		Action:     model.Action,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		Metadata:   model.Metadata,
		CreatedAt:  model.CreatedAt,
	}
}

// ActivityListRequest describes audit log pagination & filters.
type ActivityListRequest struct {
	Action     string `query:"action"`
	EntityType string `query:"entity_type"`
	Page       int    `query:"page" validate:"omitempty,gte=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ActivityListResponse pages audit log entries.
type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
	Total int64              `json:"total"`
}

// SnapshotUser serializes an account inside a snapshot document. Unlike the
// API user shape it carries the credential hash, so a restored store keeps
// its logins working.
type SnapshotUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSnapshotUser converts a User model into its snapshot shape.
func NewSnapshotUser(model models.User) SnapshotUser {
	return SnapshotUser{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Role:         string(model.Role),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// Model converts the snapshot shape back into a User model.
func (u SnapshotUser) Model() models.User {
	return models.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         models.Role(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// SnapshotDocument is the single-document persisted-state layout: one named
// collection per entity type, records ordered and keyed by id.
type SnapshotDocument struct {
	Version        int                    `json:"version"`
	Users          []SnapshotUser         `json:"users"`
	Courses        []models.Course        `json:"courses"`
	Enrollments    []models.Enrollment    `json:"enrollments"`
	Assignments    []models.Assignment    `json:"assignments"`
	Submissions    []models.Submission    `json:"submissions"`
	Grades         []models.Grade         `json:"grades"`
	Announcements  []models.Announcement  `json:"announcements"`
	CalendarEvents []models.CalendarEvent `json:"calendar_events"`
	Timetable      []models.TimetableSlot `json:"timetable"`
	Messages       []models.Message       `json:"messages"`
}
