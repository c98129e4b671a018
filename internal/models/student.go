package models

import "time"

// Student represents a learner identified by an externally assigned student id.
// Email doubles as the "claimed" signal: a student without an email has been
// imported by a teacher but has not yet claimed the account. The access key is
// stored only in encrypted form ("<ivHex>:<cipherHex>").
type Student struct {
	StudentID          string    `gorm:"primaryKey;size:64" json:"student_id"`
	Name               string    `gorm:"size:255;not null" json:"name"`
	Email              *string   `gorm:"size:255" json:"email"`
	AccessKeyEncrypted string    `gorm:"size:512" json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Claimed reports whether the student has registered an email address.
func (s Student) Claimed() bool {
	return s.Email != nil && *s.Email != ""
}
