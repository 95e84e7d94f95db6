package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement is a course-scoped notice posted by faculty or admins.
type Announcement struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  string    `gorm:"type:uuid;index;not null" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Announcement) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
