package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission statuses. A student+session pair with no rows at all is reported
// as the virtual status "missing"; it is never stored.
const (
	// SubmissionStatusPending indicates the report is waiting for AI grading.
	SubmissionStatusPending = "pending"
	// SubmissionStatusAIGraded indicates the AI has scored the report and the
	// teacher has not yet confirmed.
	SubmissionStatusAIGraded = "ai_graded"
	// SubmissionStatusApproved is the teacher's terminal confirmation.
	SubmissionStatusApproved = "approved"
	// SubmissionStatusRejected is the teacher's terminal rejection; the student
	// must submit a new row.
	SubmissionStatusRejected = "rejected"
)

// Submission is one report handed in for a session. Resubmissions insert new
// rows; the latest row by SubmittedAt is the authoritative view.
type Submission struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	SessionID        string         `gorm:"size:64;not null;index" json:"session_id"`
	StudentID        string         `gorm:"size:64;not null;index" json:"student_id"`
	FileURL          string         `gorm:"size:512" json:"file_url"`
	OriginalFilename string         `gorm:"size:255" json:"original_filename"`
	ReportText       string         `gorm:"type:text" json:"report_text"`
	IsEarlyBird      bool           `json:"is_early_bird"`
	IsLate           bool           `json:"is_late"`
	Status           string         `gorm:"size:32;not null" json:"status"`
	Score            *int           `json:"score"`
	AIFeedback       datatypes.JSON `json:"ai_feedback"`
	ExecutedPrompt   string         `gorm:"type:text" json:"executed_prompt"`
	TeacherComment   string         `gorm:"type:text" json:"teacher_comment"`
	SubmittedAt      time.Time      `gorm:"not null;index" json:"submitted_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Session          Session        `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}

// IsTerminal reports whether the teacher has already confirmed or rejected this row.
func (s Submission) IsTerminal() bool {
	return s.Status == SubmissionStatusApproved || s.Status == SubmissionStatusRejected
}

// StatusLabel maps a stored status to the student-facing wording used in
// status notifications.
func StatusLabel(status string) string {
	switch status {
	case SubmissionStatusPending:
		return "grading in progress"
	case SubmissionStatusAIGraded:
		return "pending teacher confirmation"
	case SubmissionStatusApproved:
		return "approved"
	case SubmissionStatusRejected:
		return "resubmission required"
	default:
		return "not submitted"
	}
}
