package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/models"
)

// MessageRepository defines persistence operations for discussion messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Message, error)
	FirstInThread(ctx context.Context, threadID string) (models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository instantiates a GORM-backed repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) ListByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Message, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) FirstInThread(ctx context.Context, threadID string) (models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		First(&message).Error
	if err != nil {
		return models.Message{}, err
	}

	return message, nil
}
