package ai

import "context"

// PromptInput contains the course and session context embedded into a grading prompt.
type PromptInput struct {
	SessionTitle  string
	SystemPrompt  string
	GradingPrompt string
	FileName      string
	Content       string
}

// Feedback is the structured commentary returned alongside a score.
type Feedback struct {
	Summary string            `json:"summary"`
	Details map[string]string `json:"details"`
	Advice  string            `json:"advice"`
}

// GradeResult is the structured grading output for a report submission.
type GradeResult struct {
	Score    int                    `json:"score"`
	Feedback Feedback               `json:"feedback_data"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}

// ReportGrader describes an AI model capable of grading a composed report prompt.
type ReportGrader interface {
	Grade(ctx context.Context, prompt string) (GradeResult, error)
}
