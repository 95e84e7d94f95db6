package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/models"
)

// GradeRepository defines persistence operations for published grades.
type GradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	GetBySubmission(ctx context.Context, submissionID string) (models.Grade, error)
	ExistsForSubmission(ctx context.Context, submissionID string) (bool, error)
	ListBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]models.Grade, error)
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates a GORM-backed repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepository) GetBySubmission(ctx context.Context, submissionID string) (models.Grade, error) {
	var grade models.Grade
	err := r.db.WithContext(ctx).First(&grade, "submission_id = ?", submissionID).Error
	if err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) ExistsForSubmission(ctx context.Context, submissionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Grade{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *gradeRepository) ListBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]models.Grade, error) {
	if len(submissionIDs) == 0 {
		return nil, nil
	}

	var grades []models.Grade
	err := r.db.WithContext(ctx).Where("submission_id IN ?", submissionIDs).Find(&grades).Error
	if err != nil {
		return nil, err
	}

	return grades, nil
}
