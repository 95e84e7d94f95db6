package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission represents work handed in by a student for an assignment.
// A student may submit more than once; only the latest is conventionally graded.
type Submission struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID string    `gorm:"type:uuid;index;not null" json:"assignment_id"`
	UserID       string    `gorm:"type:uuid;index;not null" json:"user_id"`
	FileName     string    `gorm:"size:512" json:"file_name"`
	Note         string    `gorm:"type:text" json:"note"`
	SubmittedAt  time.Time `gorm:"not null" json:"submitted_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Grade is the published evaluation of a submission. At most one grade may
// exist per submission and it is immutable once created.
type Grade struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID string    `gorm:"type:uuid;uniqueIndex;not null" json:"submission_id"`
	Score        float64   `gorm:"not null" json:"score"`
	Feedback     string    `gorm:"type:text" json:"feedback"`
	GradedAt     time.Time `gorm:"not null" json:"graded_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (g *Grade) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
