package ai

import "strings"

// promptContentLimit caps how much report text is embedded into a single prompt.
const promptContentLimit = 15000

// BuildPrompt composes the full grading prompt for a report submission. The
// returned string is exactly what is sent to the model and is persisted on the
// submission for audit.
func BuildPrompt(input PromptInput) string {
	content := input.Content
	if len(content) > promptContentLimit {
		content = content[:promptContentLimit]
	}

	builder := strings.Builder{}
	builder.WriteString("You are a university professor grading a student report.\n\n")
	builder.WriteString("Assignment: \"")
	builder.WriteString(input.SessionTitle)
	builder.WriteString("\"\n")

	if input.SystemPrompt != "" {
		builder.WriteString("\n=== Base grading criteria (applies to every session) ===\n")
		builder.WriteString(input.SystemPrompt)
		builder.WriteString("\n")
	}

	if input.GradingPrompt != "" {
		builder.WriteString("\n=== Session-specific grading emphasis ===\n")
		builder.WriteString(input.GradingPrompt)
		builder.WriteString("\n")
	}

	builder.WriteString("\n=== Submitted report ===\n")
	builder.WriteString("File name: ")
	builder.WriteString(input.FileName)
	builder.WriteString("\nExtracted content:\n")
	builder.WriteString(content)
	builder.WriteString("\n=== End of report ===\n\n")

	builder.WriteString("Rules:\n")
	builder.WriteString("- If the content states that text extraction failed, that the file could not be read, ")
	builder.WriteString("or that it contains binary data, do not grade it. Respond with score 0 and the feedback ")
	builder.WriteString("summary \"The file contents could not be read. Please resubmit.\"\n")
	builder.WriteString("- Only grade the report when the extracted text is meaningful.\n\n")

	builder.WriteString("Respond with a JSON object:\n")
	builder.WriteString(`{
  "score": <integer 0-100>,
  "feedback_data": {
    "summary": "<overall impression and encouragement for the student>",
    "details": {
      "<criterion, e.g. accuracy>": "<comment>",
      "<criterion, e.g. structure>": "<comment>"
    },
    "advice": "<concrete suggestions for improvement>"
  }
}`)

	return builder.String()
}
