package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
)

// CourseRepository provides access to course records.
type CourseRepository interface {
	GetByID(ctx context.Context, courseID string) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetByID(ctx context.Context, courseID string) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		First(&course).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}
