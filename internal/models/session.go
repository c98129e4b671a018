package models

import "time"

// Session is one graded assignment round within a course.
type Session struct {
	SessionID     string     `gorm:"primaryKey;size:64" json:"session_id"`
	CourseID      string     `gorm:"size:64;not null;uniqueIndex:idx_course_session_number" json:"course_id"`
	SessionNumber int        `gorm:"not null;uniqueIndex:idx_course_session_number" json:"session_number"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Deadline      time.Time  `gorm:"not null" json:"deadline"`
	GradingPrompt string     `gorm:"type:text" json:"grading_prompt"`
	SessionDate   *time.Time `json:"session_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Course        Course     `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// IsEarlyBird reports whether a submission at the reference time lands before
// the deadline. Exactly at the deadline is neither early nor late.
func (s Session) IsEarlyBird(reference time.Time) bool {
	return reference.Before(s.Deadline)
}

// IsLate reports whether a submission at the reference time lands after the deadline.
func (s Session) IsLate(reference time.Time) bool {
	return reference.After(s.Deadline)
}
