package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/internal/repository"
)

// ErrSubmissionNotGraded indicates a review was attempted before the AI
// produced a grade.
var ErrSubmissionNotGraded = errors.New("submission has not been graded yet")

// ReviewService reads submissions for teacher inspection and applies the
// approve/reject decision.
type ReviewService interface {
	Get(ctx context.Context, submissionID uint) (dto.SubmissionResponse, error)
	Review(ctx context.Context, submissionID uint, payload dto.ReviewRequest) (dto.ReviewResponse, error)
}

type reviewService struct {
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewReviewService constructs a ReviewService instance.
func NewReviewService(
	submissions repository.SubmissionRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		submissions: submissions,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "review_service").Logger(),
	}
}

// Get returns the submission with its AI score and feedback so the teacher can
// inspect it before deciding.
func (s *reviewService) Get(ctx context.Context, submissionID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// Review moves the submission to approved or rejected. The score override and
// comment are optional; an absent override keeps the AI-assigned score. A
// terminal submission can be re-reviewed, which simply overwrites the verdict.
func (s *reviewService) Review(ctx context.Context, submissionID uint, payload dto.ReviewRequest) (dto.ReviewResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReviewResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewResponse{}, ErrSubmissionNotFound
		}
		return dto.ReviewResponse{}, err
	}

	if submission.Status == models.SubmissionStatusPending {
		return dto.ReviewResponse{}, ErrSubmissionNotGraded
	}

	newStatus := models.SubmissionStatusApproved
	if payload.Action == "reject" {
		newStatus = models.SubmissionStatusRejected
	}

	fields := map[string]interface{}{
		"status": newStatus,
	}
	if payload.ScoreOverride != nil {
		fields["score"] = *payload.ScoreOverride
	}
	if payload.TeacherComment != "" {
		fields["teacher_comment"] = s.sanitizer.Sanitize(payload.TeacherComment)
	}

	if err := s.submissions.UpdateGradeResult(ctx, submissionID, fields); err != nil {
		return dto.ReviewResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submissionID).
		Str("action", payload.Action).
		Bool("score_overridden", payload.ScoreOverride != nil).
		Msg("submission reviewed")

	return dto.ReviewResponse{
		SubmissionID: submissionID,
		Action:       payload.Action,
		NewStatus:    newStatus,
	}, nil
}
