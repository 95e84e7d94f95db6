package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
)

// snapshotVersion is the persisted-state document version this build writes.
const snapshotVersion = 1

const snapshotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "users", "courses", "enrollments", "assignments",
               "submissions", "grades", "announcements", "calendar_events",
               "timetable", "messages"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "users": {"type": "array", "items": {"type": "object", "required": ["id", "email", "role", "password_hash"]}},
    "courses": {"type": "array", "items": {"type": "object", "required": ["id", "code", "faculty_id", "capacity"]}},
    "enrollments": {"type": "array", "items": {"type": "object", "required": ["id", "course_id", "user_id"]}},
    "assignments": {"type": "array", "items": {"type": "object", "required": ["id", "course_id", "points"]}},
    "submissions": {"type": "array", "items": {"type": "object", "required": ["id", "assignment_id", "user_id"]}},
    "grades": {"type": "array", "items": {"type": "object", "required": ["id", "submission_id", "score"]}},
    "announcements": {"type": "array", "items": {"type": "object", "required": ["id", "course_id", "title"]}},
    "calendar_events": {"type": "array", "items": {"type": "object", "required": ["id", "title", "type"]}},
    "timetable": {"type": "array", "items": {"type": "object", "required": ["id", "course_id", "day"]}},
    "messages": {"type": "array", "items": {"type": "object", "required": ["id", "thread_id", "course_id"]}}
  }
}`

// SnapshotService exports and imports the full dataset as the single
// versioned document described by the persisted-state contract. Admin only.
type SnapshotService interface {
	Export(ctx context.Context, actor Actor) (dto.SnapshotDocument, error)
	Import(ctx context.Context, actor Actor, raw []byte) (dto.SnapshotDocument, error)
}

type snapshotService struct {
	db     *gorm.DB
	policy *Policy
	schema *jsonschema.Schema
	logger zerolog.Logger
}

// NewSnapshotService constructs the snapshot gateway.
func NewSnapshotService(db *gorm.DB, policy *Policy, logger zerolog.Logger) (SnapshotService, error) {
	schema, err := jsonschema.CompileString("snapshot.schema.json", snapshotSchema)
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}

	return &snapshotService{
		db:     db,
		policy: policy,
		schema: schema,
		logger: logger.With().Str("component", "snapshot_service").Logger(),
	}, nil
}

func (s *snapshotService) Export(ctx context.Context, actor Actor) (dto.SnapshotDocument, error) {
	if err := s.policy.AuthorizeUserManagement(actor); err != nil {
		return dto.SnapshotDocument{}, err
	}

	doc := dto.SnapshotDocument{Version: snapshotVersion}
	db := s.db.WithContext(ctx)

	var users []models.User
	steps := []error{
		db.Order("created_at ASC").Find(&users).Error,
		db.Order("created_at ASC").Find(&doc.Courses).Error,
		db.Order("created_at ASC").Find(&doc.Enrollments).Error,
		db.Order("created_at ASC").Find(&doc.Assignments).Error,
		db.Order("created_at ASC").Find(&doc.Submissions).Error,
		db.Order("created_at ASC").Find(&doc.Grades).Error,
		db.Order("created_at ASC").Find(&doc.Announcements).Error,
		db.Order("created_at ASC").Find(&doc.CalendarEvents).Error,
		db.Order("created_at ASC").Find(&doc.Timetable).Error,
		db.Order("created_at ASC").Find(&doc.Messages).Error,
	}
	for _, err := range steps {
		if err != nil {
			return dto.SnapshotDocument{}, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
		}
	}

	doc.Users = make([]dto.SnapshotUser, 0, len(users))
	for _, u := range users {
		doc.Users = append(doc.Users, dto.NewSnapshotUser(u))
	}

	return doc, nil
}

// Import validates the document against the snapshot schema, then atomically
// replaces every collection. Either the whole document lands or none of it.
func (s *snapshotService) Import(ctx context.Context, actor Actor, raw []byte) (dto.SnapshotDocument, error) {
	if err := s.policy.AuthorizeUserManagement(actor); err != nil {
		return dto.SnapshotDocument{}, err
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return dto.SnapshotDocument{}, fmt.Errorf("invalid snapshot document: %w", err)
	}
	if err := s.schema.Validate(generic); err != nil {
		return dto.SnapshotDocument{}, fmt.Errorf("invalid snapshot document: %w", err)
	}

	var doc dto.SnapshotDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return dto.SnapshotDocument{}, fmt.Errorf("invalid snapshot document: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tables := []interface{}{
			&models.Message{}, &models.TimetableSlot{}, &models.CalendarEvent{},
			&models.Announcement{}, &models.Grade{}, &models.Submission{},
			&models.Assignment{}, &models.Enrollment{}, &models.Course{}, &models.User{},
		}
		for _, table := range tables {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return err
			}
		}

		for i := range doc.Users {
			user := doc.Users[i].Model()
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}
		for i := range doc.Courses {
			if err := tx.Create(&doc.Courses[i]).Error; err != nil {
				return err
			}
		}
		for i := range doc.Enrollments {
			if err := tx.Create(&doc.Enrollments[i]).Error; err != nil {
				return err
			}
		}
		for i := range doc.Assignments {
			if err := tx.Create(&doc.Assignments[i]).Error; err != nil {
				return err
			}
		}
		for i := range doc.Submissions {
			if err := tx.Create(&doc.Submissions[i]).Error; err != nil {
				return err
			}
		}
		for i := range doc.Grades {
			if err := tx.Create(&doc.Grades[i]).Error; err != nil {
				return err
			}
		}
		for i := range doc.Announcements {
			if err := tx.Create(&doc.Announcements[i]).Error; err != nil {
				return err
			}
		}
		for i := range doc.CalendarEvents {
			if err := tx.Create(&doc.CalendarEvents[i]).Error; err != nil {
				return err
			}
		}
		for i := range doc.Timetable {
			if err := tx.Create(&doc.Timetable[i]).Error; err != nil {
				return err
			}
		}
		for i := range doc.Messages {
			if err := tx.Create(&doc.Messages[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dto.SnapshotDocument{}, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	s.logger.Info().Int("users", len(doc.Users)).Int("courses", len(doc.Courses)).Msg("snapshot imported")
	return doc, nil
}
