package models

import "time"

// Course groups graded sessions under a teacher. The optional system prompt is
// the grading persona applied to every session of the course.
type Course struct {
	CourseID     string    `gorm:"primaryKey;size:64" json:"course_id"`
	TeacherID    string    `gorm:"size:64;not null;index" json:"teacher_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Year         int       `json:"year"`
	Term         string    `gorm:"size:32" json:"term"`
	SystemPrompt string    `gorm:"type:text" json:"system_prompt"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Sessions     []Session `gorm:"foreignKey:CourseID" json:"sessions,omitempty"`
}
