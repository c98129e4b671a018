package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/internal/observability"
	"github.com/noah-isme/coursemaker-go-api/internal/queue"
	"github.com/noah-isme/coursemaker-go-api/internal/repository"
	"github.com/noah-isme/coursemaker-go-api/pkg/secrets"
)

// ErrInvalidStudentID indicates no student record exists for the supplied id.
var ErrInvalidStudentID = errors.New("invalid student id")

// ErrInvalidAccessKey indicates the student exists but the key does not match.
var ErrInvalidAccessKey = errors.New("invalid access key")

// ErrNotEnrolled indicates the student is not actively enrolled in the course.
var ErrNotEnrolled = errors.New("not enrolled in this course")

// ErrSessionNotFound indicates the target session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// SubmissionService runs the intake pipeline for student report submissions.
type SubmissionService interface {
	Submit(ctx context.Context, payload dto.SubmitReportRequest) (dto.SubmitReportResponse, error)
}

type submissionService struct {
	students    repository.StudentRepository
	enrollments repository.EnrollmentRepository
	sessions    repository.SessionRepository
	submissions repository.SubmissionRepository
	vault       *secrets.Vault
	dispatcher  queue.GradingDispatcher
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(
	students repository.StudentRepository,
	enrollments repository.EnrollmentRepository,
	sessions repository.SessionRepository,
	submissions repository.SubmissionRepository,
	vault *secrets.Vault,
	dispatcher queue.GradingDispatcher,
	validate *validator.Validate,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		students:    students,
		enrollments: enrollments,
		sessions:    sessions,
		submissions: submissions,
		vault:       vault,
		dispatcher:  dispatcher,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit authenticates the student, checks enrollment and session, classifies
// timing, inserts the submission row and schedules grading. The first failure
// wins; no writes happen before all checks pass. Once the id is returned the
// row is durable — grading completes eventually, never transactionally.
func (s *submissionService) Submit(ctx context.Context, payload dto.SubmitReportRequest) (dto.SubmitReportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmitReportResponse{}, err
	}

	student, err := s.students.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitReportResponse{}, ErrInvalidStudentID
		}
		return dto.SubmitReportResponse{}, err
	}

	if err := s.vault.Verify(student.AccessKeyEncrypted, payload.AccessKey); err != nil {
		if !errors.Is(err, secrets.ErrKeyMismatch) {
			// Corrupt or undecryptable record: still an authentication failure
			// to the caller, but worth an operator-facing log line.
			s.logger.Error().Err(err).Str("student_id", payload.StudentID).Msg("access key verification failed")
		}
		return dto.SubmitReportResponse{}, ErrInvalidAccessKey
	}

	enrollment, err := s.enrollments.Get(ctx, payload.CourseID, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitReportResponse{}, ErrNotEnrolled
		}
		return dto.SubmitReportResponse{}, err
	}

	if !enrollment.IsActive() {
		return dto.SubmitReportResponse{}, ErrNotEnrolled
	}

	session, err := s.sessions.GetByID(ctx, payload.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitReportResponse{}, ErrSessionNotFound
		}
		return dto.SubmitReportResponse{}, err
	}

	submittedAt := s.now()
	submission := models.Submission{
		SessionID:        payload.SessionID,
		StudentID:        payload.StudentID,
		FileURL:          payload.FilePath,
		OriginalFilename: payload.OriginalFilename,
		ReportText:       payload.ReportText,
		IsEarlyBird:      session.IsEarlyBird(submittedAt),
		IsLate:           session.IsLate(submittedAt),
		Status:           models.SubmissionStatusPending,
		SubmittedAt:      submittedAt,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmitReportResponse{}, err
	}

	observability.Submissions().WithLabelValues(timingLabel(submission)).Inc()

	// Fire and forget: grading runs in the background and its outcome never
	// reaches the submitting student.
	if err := s.dispatcher.Dispatch(ctx, submission.ID); err != nil {
		s.logger.Error().Err(err).Uint("submission_id", submission.ID).Msg("failed to schedule grading")
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Str("student_id", submission.StudentID).
		Str("session_id", submission.SessionID).
		Bool("early_bird", submission.IsEarlyBird).
		Msg("submission accepted")

	return dto.SubmitReportResponse{
		SubmissionID: submission.ID,
		IsEarlyBird:  submission.IsEarlyBird,
	}, nil
}

func timingLabel(submission models.Submission) string {
	switch {
	case submission.IsEarlyBird:
		return "early_bird"
	case submission.IsLate:
		return "late"
	default:
		return "on_time"
	}
}
