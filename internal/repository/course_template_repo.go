package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
)

// CourseTemplateRepository provides access to course templates.
type CourseTemplateRepository interface {
	MatchForTitle(ctx context.Context, teacherID, title string) (*models.CourseTemplate, error)
}

type courseTemplateRepository struct {
	db *gorm.DB
}

// NewCourseTemplateRepository constructs a course template repository.
func NewCourseTemplateRepository(db *gorm.DB) CourseTemplateRepository {
	return &courseTemplateRepository{db: db}
}

// MatchForTitle returns the first template whose keyword appears in the course
// title, or nil when no template applies.
func (r *courseTemplateRepository) MatchForTitle(ctx context.Context, teacherID, title string) (*models.CourseTemplate, error) {
	var templates []models.CourseTemplate
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("id ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}

	for i := range templates {
		if templates[i].Keyword != "" && strings.Contains(title, templates[i].Keyword) {
			return &templates[i], nil
		}
	}

	return nil, nil
}
