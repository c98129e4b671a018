package models

import "time"

// CourseTemplate seeds a new course's system prompt when the course title
// contains the template keyword.
type CourseTemplate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TeacherID    string    `gorm:"size:64;not null;index" json:"teacher_id"`
	Keyword      string    `gorm:"size:255;not null" json:"keyword"`
	SystemPrompt string    `gorm:"type:text" json:"system_prompt"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
