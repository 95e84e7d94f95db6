package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course represents an offered course owned by a faculty member.
type Course struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string    `gorm:"size:32;not null;index" json:"code"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	FacultyID string    `gorm:"type:uuid;index;not null" json:"faculty_id"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Credits   int       `gorm:"not null" json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Enrollment links a student to a course. The (course, user) pair is unique.
type Enrollment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_course_user" json:"course_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_course_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *Enrollment) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
