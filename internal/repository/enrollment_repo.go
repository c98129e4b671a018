package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
)

// EnrollmentRepository provides access to enrollment records.
type EnrollmentRepository interface {
	Get(ctx context.Context, courseID, studentID string) (models.Enrollment, error)
	ListActiveByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error)
	UpsertMany(ctx context.Context, enrollments []models.Enrollment) error
	UpdateStatus(ctx context.Context, courseID, studentID, status string) error
	SetLastEmailSentAt(ctx context.Context, courseID, studentID string, sentAt time.Time) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Get(ctx context.Context, courseID, studentID string) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Where("student_id = ?", studentID).
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) ListActiveByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Where("status = ?", models.EnrollmentStatusActive).
		Order("student_id ASC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

// UpsertMany seeds enrollments, leaving existing rows untouched on conflict so
// a re-import never flips a dropped student back to active.
func (r *enrollmentRepository) UpsertMany(ctx context.Context, enrollments []models.Enrollment) error {
	if len(enrollments) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "student_id"}},
			DoNothing: true,
		}).
		Create(&enrollments).Error
}

func (r *enrollmentRepository) UpdateStatus(ctx context.Context, courseID, studentID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Where("student_id = ?", studentID).
		Update("status", status).Error
}

func (r *enrollmentRepository) SetLastEmailSentAt(ctx context.Context, courseID, studentID string, sentAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Where("student_id = ?", studentID).
		Update("last_email_sent_at", sentAt).Error
}
