package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment represents graded coursework posted to a course.
type Assignment struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID     string    `gorm:"type:uuid;index;not null" json:"course_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	DueAt        time.Time `gorm:"not null" json:"due_at"`
	Points       float64   `gorm:"not null" json:"points"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Assignment) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// IsUpcoming reports whether the deadline is still ahead of the reference time.
func (a Assignment) IsUpcoming(reference time.Time) bool {
	return a.DueAt.After(reference)
}
