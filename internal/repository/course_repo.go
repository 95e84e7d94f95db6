package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/models"
)

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]models.Course, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) ListByFaculty(ctx context.Context, facultyID string) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).Where("faculty_id = ?", facultyID).Order("code ASC").Find(&courses).Error
	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var courses []models.Course
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("code ASC").Find(&courses).Error
	if err != nil {
		return nil, err
	}

	return courses, nil
}
