package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
)

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	LatestBySessionAndStudent(ctx context.Context, sessionID, studentID string) (models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
	UpdateGradeResult(ctx context.Context, id uint, fields map[string]interface{}) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Session").
		Preload("Session.Course")
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// LatestBySessionAndStudent returns the authoritative row for display and
// grading: resubmissions insert new rows, so latest by submitted_at wins.
func (r *submissionRepository) LatestBySessionAndStudent(ctx context.Context, sessionID, studentID string) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).
		Where("session_id = ?", sessionID).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

// UpdateGradeResult applies the grading outcome as a single update statement.
func (r *submissionRepository) UpdateGradeResult(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(fields).Error
}
