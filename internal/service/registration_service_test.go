package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/pkg/secrets"
)

type registrationFixture struct {
	students    *fakeStudentRepo
	enrollments *fakeEnrollmentRepo
	vault       *secrets.Vault
	mail        *fakeMailer
	service     RegistrationService
}

func newRegistrationFixture(t *testing.T, students ...models.Student) *registrationFixture {
	t.Helper()

	vault, err := secrets.NewVault(testVaultKey)
	require.NoError(t, err)

	f := &registrationFixture{
		students:    newFakeStudentRepo(students...),
		enrollments: newFakeEnrollmentRepo(),
		vault:       vault,
		mail:        &fakeMailer{failFor: map[string]error{}},
	}

	f.service = NewRegistrationService(
		f.students, f.enrollments, vault, f.mail,
		time.Second, validator.New(), zerolog.Nop(),
	)

	return f
}

func TestRegisterTeacherImport(t *testing.T) {
	f := newRegistrationFixture(t)

	resp, err := f.service.Register(context.Background(), dto.RegisterStudentRequest{
		StudentID: "s-1",
		Name:      "Student One",
		CourseIDs: []string{"c-1", "c-2"},
	})
	require.NoError(t, err)
	require.True(t, resp.KeyIssued)
	require.False(t, resp.KeyEmailed)

	stored, err := f.students.GetByID(context.Background(), "s-1")
	require.NoError(t, err)
	require.False(t, stored.Claimed())
	require.NotEmpty(t, stored.AccessKeyEncrypted)

	require.Len(t, f.enrollments.upserted, 2)
	require.Empty(t, f.mail.sent)
}

func TestRegisterClaim(t *testing.T) {
	f := newRegistrationFixture(t, models.Student{
		StudentID: "s-1", Name: "Student One",
	})

	resp, err := f.service.Register(context.Background(), dto.RegisterStudentRequest{
		StudentID: "s-1",
		Email:     "one@example.com",
	})
	require.NoError(t, err)
	require.True(t, resp.KeyIssued)
	require.True(t, resp.KeyEmailed)

	stored, err := f.students.GetByID(context.Background(), "s-1")
	require.NoError(t, err)
	require.True(t, stored.Claimed())

	// The emailed key must verify against the stored record.
	require.Len(t, f.mail.sent, 1)
	key := extractKey(t, f.mail.sent[0].Body)
	require.NoError(t, f.vault.Verify(stored.AccessKeyEncrypted, key))
}

func TestRegisterClaimWithoutEmail(t *testing.T) {
	f := newRegistrationFixture(t, models.Student{StudentID: "s-1", Name: "Student One"})

	_, err := f.service.Register(context.Background(), dto.RegisterStudentRequest{StudentID: "s-1"})
	require.ErrorIs(t, err, ErrEmailRequired)
}

func TestRegisterReissueSameEmail(t *testing.T) {
	f := newRegistrationFixture(t, models.Student{
		StudentID: "s-1", Name: "Student One",
		Email:              strPtr("one@example.com"),
		AccessKeyEncrypted: "old-record",
	})

	resp, err := f.service.Register(context.Background(), dto.RegisterStudentRequest{
		StudentID: "s-1",
		Email:     "one@example.com",
	})
	require.NoError(t, err)
	require.True(t, resp.KeyIssued)
	require.True(t, resp.KeyEmailed)

	stored, err := f.students.GetByID(context.Background(), "s-1")
	require.NoError(t, err)
	require.NotEqual(t, "old-record", stored.AccessKeyEncrypted)
}

func TestRegisterReissueDifferentEmail(t *testing.T) {
	f := newRegistrationFixture(t, models.Student{
		StudentID: "s-1", Name: "Student One",
		Email: strPtr("one@example.com"),
	})

	_, err := f.service.Register(context.Background(), dto.RegisterStudentRequest{
		StudentID: "s-1",
		Email:     "other@example.com",
	})
	require.ErrorIs(t, err, ErrEmailMismatch)
}

func TestRegisterUnknownStudentWithoutName(t *testing.T) {
	f := newRegistrationFixture(t)

	_, err := f.service.Register(context.Background(), dto.RegisterStudentRequest{
		StudentID: "s-404",
		Email:     "x@example.com",
	})
	require.ErrorIs(t, err, ErrUnknownStudent)
}

func TestRegisterEmailFailureIsNotFatal(t *testing.T) {
	f := newRegistrationFixture(t, models.Student{StudentID: "s-1", Name: "Student One"})
	f.mail.failFor["one@example.com"] = context.DeadlineExceeded

	resp, err := f.service.Register(context.Background(), dto.RegisterStudentRequest{
		StudentID: "s-1",
		Email:     "one@example.com",
	})
	require.NoError(t, err)
	require.True(t, resp.KeyIssued)
	require.False(t, resp.KeyEmailed)
}

// extractKey pulls the 32-char hex key out of the delivery email body.
func extractKey(t *testing.T, body string) string {
	t.Helper()
	for _, field := range strings.Fields(body) {
		if len(field) == 32 {
			return field
		}
	}
	t.Fatalf("no access key found in body: %q", body)
	return ""
}
