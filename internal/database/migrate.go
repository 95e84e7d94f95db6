package database

import (
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/models"
)

// Migrate applies the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Submission{},
		&models.Grade{},
		&models.Announcement{},
		&models.CalendarEvent{},
		&models.TimetableSlot{},
		&models.Message{},
		&models.ActivityLog{},
	)
}
