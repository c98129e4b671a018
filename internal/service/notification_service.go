package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/internal/observability"
	"github.com/noah-isme/coursemaker-go-api/internal/repository"
	"github.com/noah-isme/coursemaker-go-api/pkg/mailer"
)

// ErrCourseNotFound indicates the referenced course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// ErrNotCourseOwner indicates the acting teacher does not own the course.
var ErrNotCourseOwner = errors.New("course belongs to another teacher")

// NotificationService composes per-student status reports and delivers them by
// email to the course's active enrollments.
type NotificationService interface {
	ComposeStatus(ctx context.Context, courseID, studentID string) (dto.StatusReport, error)
	Send(ctx context.Context, teacherID, courseID string, req dto.SendNotificationRequest) (dto.SendNotificationResult, error)
}

type notificationService struct {
	courses      repository.CourseRepository
	sessions     repository.SessionRepository
	enrollments  repository.EnrollmentRepository
	submissions  repository.SubmissionRepository
	mail         mailer.Mailer
	emailTimeout time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(
	courses repository.CourseRepository,
	sessions repository.SessionRepository,
	enrollments repository.EnrollmentRepository,
	submissions repository.SubmissionRepository,
	mail mailer.Mailer,
	emailTimeout time.Duration,
	logger zerolog.Logger,
) NotificationService {
	if emailTimeout <= 0 {
		emailTimeout = 15 * time.Second
	}

	return &notificationService{
		courses:      courses,
		sessions:     sessions,
		enrollments:  enrollments,
		submissions:  submissions,
		mail:         mail,
		emailTimeout: emailTimeout,
		logger:       logger.With().Str("component", "notification_service").Logger(),
		now:          time.Now,
	}
}

// ComposeStatus builds the session-by-session status of one student in a
// course, ordered by session number. Sessions without any submission row get
// the virtual "not submitted" status.
func (s *notificationService) ComposeStatus(ctx context.Context, courseID, studentID string) (dto.StatusReport, error) {
	sessions, err := s.sessions.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.StatusReport{}, err
	}

	report := dto.StatusReport{
		CourseID:  courseID,
		StudentID: studentID,
		Sessions:  make([]dto.SessionStatus, 0, len(sessions)),
	}

	for _, session := range sessions {
		line := dto.SessionStatus{
			SessionNumber: session.SessionNumber,
			Title:         session.Title,
			Status:        models.StatusLabel(""),
		}

		latest, err := s.submissions.LatestBySessionAndStudent(ctx, session.SessionID, studentID)
		if err == nil {
			line.Status = models.StatusLabel(latest.Status)
			line.Score = latest.Score
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StatusReport{}, err
		}

		report.Sessions = append(report.Sessions, line)
	}

	return report, nil
}

// Send emails each active enrollment its current status report. Failures are
// isolated per student: one bad address never aborts the batch. The enrollment
// timestamp is only advanced after the provider confirmed delivery.
func (s *notificationService) Send(ctx context.Context, teacherID, courseID string, req dto.SendNotificationRequest) (dto.SendNotificationResult, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SendNotificationResult{}, ErrCourseNotFound
		}
		return dto.SendNotificationResult{}, err
	}

	if course.TeacherID != teacherID {
		return dto.SendNotificationResult{}, ErrNotCourseOwner
	}

	enrollments, err := s.enrollments.ListActiveByCourse(ctx, courseID)
	if err != nil {
		return dto.SendNotificationResult{}, err
	}

	result := dto.SendNotificationResult{Errors: []string{}}

	for _, enrollment := range enrollments {
		if req.StudentID != "" && enrollment.StudentID != req.StudentID {
			continue
		}

		if !enrollment.Student.Claimed() {
			continue
		}

		if err := s.sendOne(ctx, course, enrollment); err != nil {
			observability.EmailFailures().Inc()
			s.logger.Warn().Err(err).
				Str("course_id", courseID).
				Str("student_id", enrollment.StudentID).
				Msg("status email failed")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", enrollment.StudentID, err))
			continue
		}

		observability.EmailsSent().Inc()
		result.Sent++

		if err := s.enrollments.SetLastEmailSentAt(ctx, courseID, enrollment.StudentID, s.now()); err != nil {
			s.logger.Warn().Err(err).
				Str("student_id", enrollment.StudentID).
				Msg("failed to record email timestamp")
		}
	}

	s.logger.Info().
		Str("course_id", courseID).
		Int("sent", result.Sent).
		Int("failed", len(result.Errors)).
		Msg("status notifications dispatched")

	return result, nil
}

func (s *notificationService) sendOne(ctx context.Context, course models.Course, enrollment models.Enrollment) error {
	report, err := s.ComposeStatus(ctx, course.CourseID, enrollment.StudentID)
	if err != nil {
		return fmt.Errorf("compose status: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()

	return s.mail.Send(sendCtx, mailer.Message{
		ToName:  enrollment.Student.Name,
		ToEmail: *enrollment.Student.Email,
		Subject: fmt.Sprintf("[%s] Submission status", course.Title),
		Body:    renderStatusEmail(enrollment.Student.Name, course.Title, report),
	})
}

func renderStatusEmail(studentName, courseTitle string, report dto.StatusReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", studentName)
	fmt.Fprintf(&b, "Here is your current submission status for %s:\n\n", courseTitle)

	for _, line := range report.Sessions {
		if line.Score != nil {
			fmt.Fprintf(&b, "  Session %d (%s): %s, score %d\n", line.SessionNumber, line.Title, line.Status, *line.Score)
		} else {
			fmt.Fprintf(&b, "  Session %d (%s): %s\n", line.SessionNumber, line.Title, line.Status)
		}
	}

	b.WriteString("\nIf a session says \"resubmission required\", please submit a revised report.\n")

	return b.String()
}
