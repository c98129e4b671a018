package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursemaker-go-api/internal/models"
	"github.com/noah-isme/coursemaker-go-api/pkg/secrets"
)

type uploadFixture struct {
	store    *fakeStore
	plainKey string
	service  UploadService
}

func newUploadFixture(t *testing.T) *uploadFixture {
	t.Helper()

	vault, err := secrets.NewVault(testVaultKey)
	require.NoError(t, err)

	key, err := vault.Issue()
	require.NoError(t, err)

	store := newFakeStore()
	students := newFakeStudentRepo(models.Student{
		StudentID:          "s-1",
		Name:               "Student One",
		AccessKeyEncrypted: key.Encrypted,
	})

	return &uploadFixture{
		store:    store,
		plainKey: key.Plain,
		service:  NewUploadService(students, vault, store, zerolog.Nop()),
	}
}

func uploadMeta(key string) UploadMeta {
	return UploadMeta{
		CourseID:  "c-1",
		SessionID: "sess-1",
		StudentID: "s-1",
		AccessKey: key,
		Filename:  "report.txt",
	}
}

func TestUploadStoresUnderNamespacedKey(t *testing.T) {
	f := newUploadFixture(t)

	resp, err := f.service.Upload(context.Background(), uploadMeta(f.plainKey), []byte("my report text"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.FilePath, "course/c-1/session/sess-1/s-1/"))
	require.True(t, strings.HasSuffix(resp.FilePath, ".txt"))
	require.Equal(t, []byte("my report text"), f.store.uploaded[resp.FilePath])
}

func TestUploadKeysAreUnique(t *testing.T) {
	f := newUploadFixture(t)

	first, err := f.service.Upload(context.Background(), uploadMeta(f.plainKey), []byte("a"))
	require.NoError(t, err)
	second, err := f.service.Upload(context.Background(), uploadMeta(f.plainKey), []byte("b"))
	require.NoError(t, err)
	require.NotEqual(t, first.FilePath, second.FilePath)
}

func TestUploadRejectsBadCredentials(t *testing.T) {
	f := newUploadFixture(t)

	meta := uploadMeta(f.plainKey)
	meta.StudentID = "s-404"
	_, err := f.service.Upload(context.Background(), meta, []byte("x"))
	require.ErrorIs(t, err, ErrInvalidStudentID)

	meta = uploadMeta("00000000000000000000000000000000")
	_, err = f.service.Upload(context.Background(), meta, []byte("x"))
	require.ErrorIs(t, err, ErrInvalidAccessKey)
}

func TestUploadRejectsUnsupportedContent(t *testing.T) {
	f := newUploadFixture(t)

	meta := uploadMeta(f.plainKey)
	meta.Filename = "report.png"

	// PNG magic bytes.
	_, err := f.service.Upload(context.Background(), meta, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	require.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestUploadRejectsEmptyAndOversized(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.service.Upload(context.Background(), uploadMeta(f.plainKey), nil)
	require.ErrorIs(t, err, ErrEmptyFile)

	_, err = f.service.Upload(context.Background(), uploadMeta(f.plainKey), make([]byte, maxUploadSize+1))
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUploadAcceptsPDF(t *testing.T) {
	f := newUploadFixture(t)

	meta := uploadMeta(f.plainKey)
	meta.Filename = "report.pdf"

	resp, err := f.service.Upload(context.Background(), meta, []byte("%PDF-1.4 fake body"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(resp.FilePath, ".pdf"))
}
