package dto

// CreateCourseRequest creates a course owned by the acting teacher. When
// SystemPrompt is empty, the first course template whose keyword appears in
// the title supplies it.
type CreateCourseRequest struct {
	CourseID     string `json:"course_id" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Year         int    `json:"year"`
	Term         string `json:"term"`
	SystemPrompt string `json:"system_prompt"`
}

// CreateCourseResponse reports the created course and whether a template
// supplied its grading persona.
type CreateCourseResponse struct {
	CourseID        string `json:"course_id"`
	Title           string `json:"title"`
	TemplateApplied bool   `json:"template_applied"`
}
