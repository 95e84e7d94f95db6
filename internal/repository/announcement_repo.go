package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/models"
)

// AnnouncementRepository defines persistence operations for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	ListByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Announcement, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Announcement, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository instantiates a GORM-backed repository.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepository) ListByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Announcement, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var announcements []models.Announcement
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("created_at DESC").
		Find(&announcements).Error
	if err != nil {
		return nil, err
	}

	return announcements, nil
}

func (r *announcementRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&announcements).Error
	if err != nil {
		return nil, err
	}

	return announcements, nil
}
