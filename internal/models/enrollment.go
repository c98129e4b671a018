package models

import "time"

// Enrollment statuses.
const (
	// EnrollmentStatusActive means the student may submit and receives notifications.
	EnrollmentStatusActive = "active"
	// EnrollmentStatusDropped excludes the student from submission and bulk email.
	EnrollmentStatusDropped = "dropped"
)

// Enrollment links a student to a course and gates submission eligibility.
type Enrollment struct {
	CourseID        string     `gorm:"primaryKey;size:64" json:"course_id"`
	StudentID       string     `gorm:"primaryKey;size:64" json:"student_id"`
	Status          string     `gorm:"size:16;not null;default:active" json:"status"`
	LastEmailSentAt *time.Time `json:"last_email_sent_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Student         Student    `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// IsActive reports whether the enrollment currently permits submissions.
func (e Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}
