package dto

// RevealAccessKeyResponse returns the decrypted access key to a verified teacher.
type RevealAccessKeyResponse struct {
	StudentID string `json:"student_id"`
	Key       string `json:"key"`
}

// ToggleEnrollmentRequest optionally pins the target status; when empty the
// current status is flipped.
type ToggleEnrollmentRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=active dropped"`
}

// ToggleEnrollmentResponse reports the status the enrollment ended up in.
type ToggleEnrollmentResponse struct {
	CourseID  string `json:"course_id"`
	StudentID string `json:"student_id"`
	Status    string `json:"status"`
}

// UploadResponse returns the opaque storage key for an uploaded report file.
type UploadResponse struct {
	FilePath string `json:"file_path"`
}
