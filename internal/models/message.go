package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one post in a course-scoped discussion. A thread is not stored
// as its own entity: it is the derived grouping of messages sharing ThreadID,
// titled after the oldest message.
type Message struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID  string    `gorm:"type:uuid;index;not null" json:"thread_id"`
	CourseID  string    `gorm:"type:uuid;index;not null" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	AuthorID  string    `gorm:"type:uuid;index;not null" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
