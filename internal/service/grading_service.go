package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/internal/observability"
	"github.com/noah-isme/coursemaker-go-api/internal/repository"
	"github.com/noah-isme/coursemaker-go-api/pkg/ai"
)

// ErrSubmissionNotFound indicates the submission was not located.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrGradingInProgress indicates another grading run currently holds the
// per-submission lock.
var ErrGradingInProgress = errors.New("grading already in progress for this submission")

// GradingService orchestrates the AI grading of one submission. Grade is
// idempotent: a regrade re-derives the content, re-calls the model and
// overwrites the prior score and feedback.
type GradingService interface {
	Grade(ctx context.Context, submissionID uint) error
}

type gradingService struct {
	submissions repository.SubmissionRepository
	resolver    *ContentResolver
	grader      ai.ReportGrader
	locks       *redis.Client
	lockTTL     time.Duration
	logger      zerolog.Logger
}

// NewGradingService constructs the grading orchestrator. The redis client is
// optional; without it concurrent grade calls on one submission race with
// last-write-wins semantics.
func NewGradingService(
	submissions repository.SubmissionRepository,
	resolver *ContentResolver,
	grader ai.ReportGrader,
	locks *redis.Client,
	lockTTL time.Duration,
	logger zerolog.Logger,
) GradingService {
	if lockTTL <= 0 {
		lockTTL = 3 * time.Minute
	}

	return &gradingService{
		submissions: submissions,
		resolver:    resolver,
		grader:      grader,
		locks:       locks,
		lockTTL:     lockTTL,
		logger:      logger.With().Str("component", "grading_service").Logger(),
	}
}

func (s *gradingService) Grade(ctx context.Context, submissionID uint) error {
	tracer := otel.Tracer("github.com/noah-isme/coursemaker-go-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.run")
	span.SetAttributes(attribute.Int64("grading.submission_id", int64(submissionID)))
	defer span.End()

	release, err := s.acquireLock(ctx, submissionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lock_not_acquired")
		return err
	}
	defer release()

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return ErrSubmissionNotFound
		}
		span.RecordError(err)
		return err
	}

	content := s.resolver.Resolve(ctx, submission)

	prompt := ai.BuildPrompt(ai.PromptInput{
		SessionTitle:  submission.Session.Title,
		SystemPrompt:  submission.Session.Course.SystemPrompt,
		GradingPrompt: submission.Session.GradingPrompt,
		FileName:      submission.OriginalFilename,
		Content:       content,
	})

	result, err := s.grader.Grade(ctx, prompt)
	if err != nil {
		// The submission keeps its prior state; re-invoking Grade is safe.
		observability.GradingOutcomes().WithLabelValues("failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "grading_failed")
		return fmt.Errorf("grade submission %d: %w", submissionID, err)
	}

	feedback, err := json.Marshal(result.Feedback)
	if err != nil {
		observability.GradingOutcomes().WithLabelValues("failed").Inc()
		span.RecordError(err)
		return fmt.Errorf("serialize feedback for submission %d: %w", submissionID, err)
	}

	// Single atomic update: score, feedback, state and the audit copy of the
	// exact prompt that was sent.
	fields := map[string]interface{}{
		"score":           result.Score,
		"ai_feedback":     feedback,
		"status":          models.SubmissionStatusAIGraded,
		"executed_prompt": prompt,
	}
	if err := s.submissions.UpdateGradeResult(ctx, submissionID, fields); err != nil {
		observability.GradingOutcomes().WithLabelValues("failed").Inc()
		span.RecordError(err)
		return err
	}

	observability.GradingOutcomes().WithLabelValues("graded").Inc()
	span.SetAttributes(attribute.Int("grading.score", result.Score))

	s.logger.Info().
		Uint("submission_id", submissionID).
		Int("score", result.Score).
		Msg("submission graded")

	return nil
}

// acquireLock serializes grading per submission id so concurrent triggers (a
// manual regrade racing the automatic one) do not interleave their writes.
func (s *gradingService) acquireLock(ctx context.Context, submissionID uint) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}

	key := fmt.Sprintf("grading:lock:%d", submissionID)
	acquired, err := s.locks.SetNX(ctx, key, "1", s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire grading lock: %w", err)
	}

	if !acquired {
		return nil, ErrGradingInProgress
	}

	return func() {
		if err := s.locks.Del(context.Background(), key).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to release grading lock")
		}
	}, nil
}
