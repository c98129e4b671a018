package service

import (
	"context"
	"errors"
	"fmt"
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

// ErrUnknownStudent indicates a claim attempt for a student id that was never
// imported and no name was supplied to create it.
var ErrUnknownStudent = errors.New("unknown student id")

// ErrEmailRequired indicates a claim attempt without an email address.
var ErrEmailRequired = errors.New("email is required to claim this account")

// ErrEmailMismatch indicates a re-issue attempt with an email that does not
// match the one already registered.
var ErrEmailMismatch = errors.New("email does not match the registered address")

// RegistrationService handles student import, account claiming and access key
// issuance. Three flows share one entry point:
//
//   - unknown id + name: teacher import, key issued immediately
//   - known unclaimed id + email: student claim, key issued and emailed
//   - known claimed id + matching email: key re-issue (lost key recovery)
type RegistrationService interface {
	Register(ctx context.Context, payload dto.RegisterStudentRequest) (dto.RegisterStudentResponse, error)
}

type registrationService struct {
	students     repository.StudentRepository
	enrollments  repository.EnrollmentRepository
	vault        *secrets.Vault
	mail         mailer.Mailer
	emailTimeout time.Duration
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(
	students repository.StudentRepository,
	enrollments repository.EnrollmentRepository,
	vault *secrets.Vault,
	mail mailer.Mailer,
	emailTimeout time.Duration,
	validate *validator.Validate,
	logger zerolog.Logger,
) RegistrationService {
	if emailTimeout <= 0 {
		emailTimeout = 15 * time.Second
	}

	return &registrationService{
		students:     students,
		enrollments:  enrollments,
		vault:        vault,
		mail:         mail,
		emailTimeout: emailTimeout,
		validator:    validate,
		logger:       logger.With().Str("component", "registration_service").Logger(),
	}
}

func (s *registrationService) Register(ctx context.Context, payload dto.RegisterStudentRequest) (dto.RegisterStudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RegisterStudentResponse{}, err
	}

	existing, err := s.students.GetByID(ctx, payload.StudentID)

	var student issuedStudent
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		student, err = s.importStudent(ctx, payload)
	case err != nil:
		return dto.RegisterStudentResponse{}, err
	default:
		student, err = s.reissueOrClaim(ctx, existing, payload)
	}
	if err != nil {
		return dto.RegisterStudentResponse{}, err
	}

	if err := s.enroll(ctx, payload.StudentID, payload.CourseIDs); err != nil {
		return dto.RegisterStudentResponse{}, err
	}

	emailed := s.emailKey(ctx, student)

	s.logger.Info().
		Str("student_id", student.StudentID).
		Bool("key_emailed", emailed).
		Msg("student registered")

	return dto.RegisterStudentResponse{
		StudentID:  student.StudentID,
		KeyIssued:  true,
		KeyEmailed: emailed,
	}, nil
}

func (s *registrationService) importStudent(ctx context.Context, payload dto.RegisterStudentRequest) (issuedStudent, error) {
	if payload.Name == "" {
		return issuedStudent{}, ErrUnknownStudent
	}

	key, err := s.vault.Issue()
	if err != nil {
		return issuedStudent{}, fmt.Errorf("issue access key: %w", err)
	}

	student := models.Student{
		StudentID:          payload.StudentID,
		Name:               payload.Name,
		AccessKeyEncrypted: key.Encrypted,
	}
	if payload.Email != "" {
		student.Email = &payload.Email
	}

	if err := s.students.Create(ctx, &student); err != nil {
		return issuedStudent{}, err
	}

	return issuedStudent{Student: student, PlainKey: key.Plain}, nil
}

func (s *registrationService) reissueOrClaim(ctx context.Context, student models.Student, payload dto.RegisterStudentRequest) (issuedStudent, error) {
	if student.Claimed() {
		if payload.Email == "" || payload.Email != *student.Email {
			return issuedStudent{}, ErrEmailMismatch
		}
	} else {
		if payload.Email == "" {
			return issuedStudent{}, ErrEmailRequired
		}
		student.Email = &payload.Email
	}

	key, err := s.vault.Issue()
	if err != nil {
		return issuedStudent{}, fmt.Errorf("issue access key: %w", err)
	}
	student.AccessKeyEncrypted = key.Encrypted

	if err := s.students.Update(ctx, &student); err != nil {
		return issuedStudent{}, err
	}

	return issuedStudent{Student: student, PlainKey: key.Plain}, nil
}

func (s *registrationService) enroll(ctx context.Context, studentID string, courseIDs []string) error {
	if len(courseIDs) == 0 {
		return nil
	}

	enrollments := make([]models.Enrollment, 0, len(courseIDs))
	for _, courseID := range courseIDs {
		enrollments = append(enrollments, models.Enrollment{
			CourseID:  courseID,
			StudentID: studentID,
			Status:    models.EnrollmentStatusActive,
		})
	}

	return s.enrollments.UpsertMany(ctx, enrollments)
}

// emailKey delivers the plaintext key. Delivery failure is not fatal: the key
// is already stored and the teacher can reveal it on request.
func (s *registrationService) emailKey(ctx context.Context, student issuedStudent) bool {
	if !student.Claimed() {
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()

	err := s.mail.Send(sendCtx, mailer.Message{
		ToName:  student.Name,
		ToEmail: *student.Email,
		Subject: "Your report submission access key",
		Body: fmt.Sprintf(
			"Hello %s,\n\nYour access key for report submission is:\n\n    %s\n\nKeep it private. You will need it together with your student id for every submission.\n",
			student.Name, student.PlainKey,
		),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", student.StudentID).Msg("access key email failed")
		return false
	}

	return true
}

// issuedStudent pairs a stored student row with the plaintext key from the
// issuance that produced it. The plaintext never leaves this package except
// inside the delivery email.
type issuedStudent struct {
	models.Student
	PlainKey string
}
