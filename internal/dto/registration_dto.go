package dto

// RegisterStudentRequest covers both flows of the registration endpoint:
// teacher import (name present, email optional) and student claim (email
// present, name absent).
type RegisterStudentRequest struct {
	StudentID string   `json:"student_id" validate:"required"`
	Name      string   `json:"name"`
	Email     string   `json:"email" validate:"omitempty,email"`
	CourseIDs []string `json:"course_ids"`
}

// RegisterStudentResponse signals whether a fresh access key was issued and
// whether it was delivered by email.
type RegisterStudentResponse struct {
	StudentID  string `json:"student_id"`
	KeyIssued  bool   `json:"key_issued"`
	KeyEmailed bool   `json:"key_emailed"`
}
