package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
)

// SessionRepository provides access to session records.
type SessionRepository interface {
	GetByID(ctx context.Context, sessionID string) (models.Session, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Session, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID string) (models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("session_id = ?", sessionID).
		First(&session).Error; err != nil {
		return models.Session{}, err
	}

	return session, nil
}

func (r *sessionRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Session, error) {
	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("session_number ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}
