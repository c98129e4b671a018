package models

import "time"

// Teacher is the ownership anchor for courses. The id matches the user id
// issued by the external identity service; membership in this table is the
// teacher-role check.
type Teacher struct {
	TeacherID string    `gorm:"primaryKey;size:64" json:"teacher_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
