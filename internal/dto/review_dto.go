package dto

// ReviewRequest is the teacher's approve/reject decision for a submission.
// ScoreOverride, when present, replaces the AI-assigned score.
type ReviewRequest struct {
	Action         string `json:"action" validate:"required,oneof=approve reject"`
	TeacherComment string `json:"teacher_comment"`
	ScoreOverride  *int   `json:"score_override" validate:"omitempty,min=0,max=100"`
}

// ReviewResponse reports the status the submission moved to.
type ReviewResponse struct {
	SubmissionID uint   `json:"submission_id"`
	Action       string `json:"action"`
	NewStatus    string `json:"new_status"`
}
