package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
)

// TeacherRepository provides access to the teacher registry.
type TeacherRepository interface {
	GetByID(ctx context.Context, teacherID string) (models.Teacher, error)
	Exists(ctx context.Context, teacherID string) (bool, error)
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) GetByID(ctx context.Context, teacherID string) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) Exists(ctx context.Context, teacherID string) (bool, error) {
	_, err := r.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
