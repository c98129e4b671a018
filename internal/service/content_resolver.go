package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/pkg/storage"
)

// resolvedContentLimit caps text decoded from a downloaded file.
const resolvedContentLimit = 20000

// UnreadableContentNotice is returned when the stored file is a binary format
// the resolver cannot decode. Grading treats it as a zero-score case, never a
// retryable failure.
const UnreadableContentNotice = "[system note] This submission was made in a legacy format or client-side " +
	"text extraction failed. For PDF or Word files no text was extracted, so the AI cannot read the contents."

var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
}

// ContentResolver obtains gradable text for a submission, preferring the
// client-extracted report text and falling back to a storage download.
type ContentResolver struct {
	store  storage.ObjectStore
	logger zerolog.Logger
}

// NewContentResolver constructs a content resolver.
func NewContentResolver(store storage.ObjectStore, logger zerolog.Logger) *ContentResolver {
	return &ContentResolver{
		store:  store,
		logger: logger.With().Str("component", "content_resolver").Logger(),
	}
}

// Resolve never fails: storage problems become descriptive sentinel strings so
// grading can still run and report the failure as feedback.
func (r *ContentResolver) Resolve(ctx context.Context, submission models.Submission) string {
	if submission.ReportText != "" {
		return submission.ReportText
	}

	if submission.FileURL == "" {
		return ""
	}

	data, err := r.store.Download(ctx, submission.FileURL)
	if err != nil {
		r.logger.Warn().Err(err).Str("file_url", submission.FileURL).Msg("report download failed")
		return fmt.Sprintf("file download error: %v", err)
	}

	name := submission.OriginalFilename
	if name == "" {
		name = submission.FileURL
	}

	if !textExtensions[strings.ToLower(filepath.Ext(name))] {
		return UnreadableContentNotice
	}

	content := string(data)
	if len(content) > resolvedContentLimit {
		content = content[:resolvedContentLimit]
	}

	return content
}
