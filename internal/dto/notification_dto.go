package dto

// SendNotificationRequest narrows a bulk send to one student when StudentID is set.
type SendNotificationRequest struct {
	StudentID string `json:"student_id"`
}

// SendNotificationResult summarizes a notification batch: per-student failures
// are collected, not thrown.
type SendNotificationResult struct {
	Sent   int      `json:"sent"`
	Errors []string `json:"errors"`
}

// SessionStatus is one line of a student's per-course status report.
type SessionStatus struct {
	SessionNumber int    `json:"session_number"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	Score         *int   `json:"score,omitempty"`
}

// StatusReport is the full submission status of one student across a course.
type StatusReport struct {
	CourseID  string          `json:"course_id"`
	StudentID string          `json:"student_id"`
	Sessions  []SessionStatus `json:"sessions"`
}
