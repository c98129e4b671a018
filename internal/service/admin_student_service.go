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
	"github.com/noah-isme/coursemaker-go-api/internal/repository"
	"github.com/noah-isme/coursemaker-go-api/pkg/mailer"
	"github.com/noah-isme/coursemaker-go-api/pkg/secrets"
)

// ErrEnrollmentNotFound indicates the student is not enrolled in the course.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// AdminStudentService covers the teacher-side account operations on students.
type AdminStudentService interface {
	RevealAccessKey(ctx context.Context, studentID string) (dto.RevealAccessKeyResponse, error)
	ResetEmail(ctx context.Context, studentID string) error
	ToggleEnrollment(ctx context.Context, teacherID, courseID, studentID string, payload dto.ToggleEnrollmentRequest) (dto.ToggleEnrollmentResponse, error)
}

type adminStudentService struct {
	students     repository.StudentRepository
	courses      repository.CourseRepository
	enrollments  repository.EnrollmentRepository
	vault        *secrets.Vault
	mail         mailer.Mailer
	emailTimeout time.Duration
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewAdminStudentService constructs an AdminStudentService instance.
func NewAdminStudentService(
	students repository.StudentRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	vault *secrets.Vault,
	mail mailer.Mailer,
	emailTimeout time.Duration,
	validate *validator.Validate,
	logger zerolog.Logger,
) AdminStudentService {
	if emailTimeout <= 0 {
		emailTimeout = 15 * time.Second
	}

	return &adminStudentService{
		students:     students,
		courses:      courses,
		enrollments:  enrollments,
		vault:        vault,
		mail:         mail,
		emailTimeout: emailTimeout,
		validator:    validate,
		logger:       logger.With().Str("component", "admin_student_service").Logger(),
	}
}

// RevealAccessKey decrypts the stored key for teacher-assisted recovery.
func (s *adminStudentService) RevealAccessKey(ctx context.Context, studentID string) (dto.RevealAccessKeyResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RevealAccessKeyResponse{}, ErrInvalidStudentID
		}
		return dto.RevealAccessKeyResponse{}, err
	}

	key, err := s.vault.Decrypt(student.AccessKeyEncrypted)
	if err != nil {
		return dto.RevealAccessKeyResponse{}, err
	}

	s.logger.Info().Str("student_id", studentID).Msg("access key revealed")

	return dto.RevealAccessKeyResponse{
		StudentID: studentID,
		Key:       key,
	}, nil
}

// ResetEmail detaches the student's email so the account can be claimed again,
// notifying the previous address first when one exists.
func (s *adminStudentService) ResetEmail(ctx context.Context, studentID string) error {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidStudentID
		}
		return err
	}

	if student.Claimed() {
		sendCtx, cancel := context.WithTimeout(ctx, s.emailTimeout)
		defer cancel()

		err := s.mail.Send(sendCtx, mailer.Message{
			ToName:  student.Name,
			ToEmail: *student.Email,
			Subject: "Your account email was reset",
			Body:    "A teacher reset the email on your report submission account. Register again with your student id to re-claim it.\n",
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("student_id", studentID).Msg("reset notice email failed")
		}
	}

	if err := s.students.ClearEmail(ctx, studentID); err != nil {
		return err
	}

	s.logger.Info().Str("student_id", studentID).Msg("student email reset")

	return nil
}

// ToggleEnrollment flips or pins the enrollment status after verifying the
// acting teacher owns the course.
func (s *adminStudentService) ToggleEnrollment(ctx context.Context, teacherID, courseID, studentID string, payload dto.ToggleEnrollmentRequest) (dto.ToggleEnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ToggleEnrollmentResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ToggleEnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.ToggleEnrollmentResponse{}, err
	}

	if course.TeacherID != teacherID {
		return dto.ToggleEnrollmentResponse{}, ErrNotCourseOwner
	}

	enrollment, err := s.enrollments.Get(ctx, courseID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ToggleEnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.ToggleEnrollmentResponse{}, err
	}

	newStatus := payload.Status
	if newStatus == "" {
		newStatus = models.EnrollmentStatusActive
		if enrollment.IsActive() {
			newStatus = models.EnrollmentStatusDropped
		}
	}

	if err := s.enrollments.UpdateStatus(ctx, courseID, studentID, newStatus); err != nil {
		return dto.ToggleEnrollmentResponse{}, err
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("student_id", studentID).
		Str("status", newStatus).
		Msg("enrollment status updated")

	return dto.ToggleEnrollmentResponse{
		CourseID:  courseID,
		StudentID: studentID,
		Status:    newStatus,
	}, nil
}
