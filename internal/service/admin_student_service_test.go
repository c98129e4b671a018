package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/pkg/secrets"
)

type adminFixture struct {
	students    *fakeStudentRepo
	courses     *fakeCourseRepo
	enrollments *fakeEnrollmentRepo
	mail        *fakeMailer
	plainKey    string
	service     AdminStudentService
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	vault, err := secrets.NewVault(testVaultKey)
	require.NoError(t, err)

	key, err := vault.Issue()
	require.NoError(t, err)

	f := &adminFixture{
		students: newFakeStudentRepo(models.Student{
			StudentID:          "s-1",
			Name:               "Student One",
			Email:              strPtr("one@example.com"),
			AccessKeyEncrypted: key.Encrypted,
		}),
		courses: newFakeCourseRepo(models.Course{
			CourseID: "c-1", TeacherID: "t-1", Title: "Systems Programming",
		}),
		enrollments: newFakeEnrollmentRepo(models.Enrollment{
			CourseID: "c-1", StudentID: "s-1", Status: models.EnrollmentStatusActive,
		}),
		mail:     &fakeMailer{failFor: map[string]error{}},
		plainKey: key.Plain,
	}

	f.service = NewAdminStudentService(
		f.students, f.courses, f.enrollments, vault, f.mail,
		time.Second, validator.New(), zerolog.Nop(),
	)

	return f
}

func TestRevealAccessKey(t *testing.T) {
	f := newAdminFixture(t)

	resp, err := f.service.RevealAccessKey(context.Background(), "s-1")
	require.NoError(t, err)
	require.Equal(t, f.plainKey, resp.Key)

	_, err = f.service.RevealAccessKey(context.Background(), "s-404")
	require.ErrorIs(t, err, ErrInvalidStudentID)
}

func TestResetEmail(t *testing.T) {
	f := newAdminFixture(t)

	require.NoError(t, f.service.ResetEmail(context.Background(), "s-1"))

	stored, err := f.students.GetByID(context.Background(), "s-1")
	require.NoError(t, err)
	require.False(t, stored.Claimed())

	// The previous address gets a notice.
	require.Len(t, f.mail.sent, 1)
	require.Equal(t, "one@example.com", f.mail.sent[0].ToEmail)
}

func TestResetEmailUnknownStudent(t *testing.T) {
	f := newAdminFixture(t)
	require.ErrorIs(t, f.service.ResetEmail(context.Background(), "s-404"), ErrInvalidStudentID)
}

func TestToggleEnrollmentFlips(t *testing.T) {
	f := newAdminFixture(t)

	resp, err := f.service.ToggleEnrollment(context.Background(), "t-1", "c-1", "s-1", dto.ToggleEnrollmentRequest{})
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusDropped, resp.Status)

	resp, err = f.service.ToggleEnrollment(context.Background(), "t-1", "c-1", "s-1", dto.ToggleEnrollmentRequest{})
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusActive, resp.Status)
}

func TestToggleEnrollmentExplicitStatus(t *testing.T) {
	f := newAdminFixture(t)

	resp, err := f.service.ToggleEnrollment(context.Background(), "t-1", "c-1", "s-1", dto.ToggleEnrollmentRequest{
		Status: models.EnrollmentStatusActive,
	})
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusActive, resp.Status)
}

func TestToggleEnrollmentGuards(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.service.ToggleEnrollment(context.Background(), "t-2", "c-1", "s-1", dto.ToggleEnrollmentRequest{})
	require.ErrorIs(t, err, ErrNotCourseOwner)

	_, err = f.service.ToggleEnrollment(context.Background(), "t-1", "c-404", "s-1", dto.ToggleEnrollmentRequest{})
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, err = f.service.ToggleEnrollment(context.Background(), "t-1", "c-1", "s-404", dto.ToggleEnrollmentRequest{})
	require.ErrorIs(t, err, ErrEnrollmentNotFound)

	_, err = f.service.ToggleEnrollment(context.Background(), "t-1", "c-1", "s-1", dto.ToggleEnrollmentRequest{Status: "paused"})
	require.Error(t, err)
}
