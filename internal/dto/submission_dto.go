package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
)

// SubmitReportRequest is the payload students send to hand in a report.
// The access key authenticates the student; file_path points at an object
// already uploaded to storage. report_text carries client-side extracted text.
type SubmitReportRequest struct {
	StudentID        string `json:"student_id" validate:"required"`
	AccessKey        string `json:"access_key" validate:"required"`
	FilePath         string `json:"file_path" validate:"required"`
	CourseID         string `json:"course_id" validate:"required"`
	SessionID        string `json:"session_id" validate:"required"`
	OriginalFilename string `json:"original_filename"`
	ReportText       string `json:"report_text"`
}

// SubmitReportResponse confirms the row exists; grading completes eventually.
type SubmitReportResponse struct {
	SubmissionID uint `json:"submission_id"`
	IsEarlyBird  bool `json:"is_early_bird"`
}

// FeedbackData mirrors the structured AI feedback stored on a submission.
type FeedbackData struct {
	Summary string            `json:"summary"`
	Details map[string]string `json:"details"`
	Advice  string            `json:"advice"`
}

// SubmissionResponse is the serialized view of a submission.
type SubmissionResponse struct {
	ID               uint          `json:"id"`
	SessionID        string        `json:"session_id"`
	StudentID        string        `json:"student_id"`
	FileURL          string        `json:"file_url"`
	OriginalFilename string        `json:"original_filename"`
	IsEarlyBird      bool          `json:"is_early_bird"`
	IsLate           bool          `json:"is_late"`
	Status           string        `json:"status"`
	Score            *int          `json:"score"`
	AIFeedback       *FeedbackData `json:"ai_feedback,omitempty"`
	TeacherComment   string        `json:"teacher_comment"`
	SubmittedAt      time.Time     `json:"submitted_at"`
}

// NewSubmissionResponse maps a submission model to its response form.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:               submission.ID,
		SessionID:        submission.SessionID,
		StudentID:        submission.StudentID,
		FileURL:          submission.FileURL,
		OriginalFilename: submission.OriginalFilename,
		IsEarlyBird:      submission.IsEarlyBird,
		IsLate:           submission.IsLate,
		Status:           submission.Status,
		Score:            submission.Score,
		TeacherComment:   submission.TeacherComment,
		SubmittedAt:      submission.SubmittedAt,
	}

	if len(submission.AIFeedback) > 0 {
		var feedback FeedbackData
		if err := json.Unmarshal(submission.AIFeedback, &feedback); err == nil {
			response.AIFeedback = &feedback
		}
	}

	return response
}
