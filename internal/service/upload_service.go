package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/repository"
	"github.com/noah-isme/coursemaker-go-api/pkg/secrets"
	"github.com/noah-isme/coursemaker-go-api/pkg/storage"
)

// maxUploadSize caps report files at 10 MiB.
const maxUploadSize = 10 << 20

// ErrUnsupportedFileType indicates the uploaded content is not an accepted
// report format.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ErrFileTooLarge indicates the upload exceeds the size cap.
var ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")

// ErrEmptyFile indicates a zero-byte upload.
var ErrEmptyFile = errors.New("file is empty")

// allowedMIMETypes lists accepted report formats. PDF and Word files are
// stored but graded through the unreadable-content path.
var allowedMIMETypes = map[string]bool{
	"text/plain":       true,
	"text/csv":         true,
	"text/markdown":    true,
	"application/json": true,
	"application/pdf":  true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// UploadMeta identifies the uploader and where the report belongs. The same
// student id + access key pair that authenticates a submission authenticates
// the upload.
type UploadMeta struct {
	CourseID  string
	SessionID string
	StudentID string
	AccessKey string
	Filename  string
}

// UploadService stores report files and hands back the opaque storage key the
// submission endpoint expects as file_path.
type UploadService interface {
	Upload(ctx context.Context, meta UploadMeta, data []byte) (dto.UploadResponse, error)
}

type uploadService struct {
	students repository.StudentRepository
	vault    *secrets.Vault
	store    storage.ObjectStore
	logger   zerolog.Logger
}

// NewUploadService constructs an UploadService instance.
func NewUploadService(
	students repository.StudentRepository,
	vault *secrets.Vault,
	store storage.ObjectStore,
	logger zerolog.Logger,
) UploadService {
	return &uploadService{
		students: students,
		vault:    vault,
		store:    store,
		logger:   logger.With().Str("component", "upload_service").Logger(),
	}
}

// Upload authenticates the caller, validates the content by sniffing rather
// than trusting the filename, and stores it under a collision-free key
// namespaced by course, session and student.
func (s *uploadService) Upload(ctx context.Context, meta UploadMeta, data []byte) (dto.UploadResponse, error) {
	student, err := s.students.GetByID(ctx, meta.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UploadResponse{}, ErrInvalidStudentID
		}
		return dto.UploadResponse{}, err
	}

	if err := s.vault.Verify(student.AccessKeyEncrypted, meta.AccessKey); err != nil {
		return dto.UploadResponse{}, ErrInvalidAccessKey
	}

	if len(data) == 0 {
		return dto.UploadResponse{}, ErrEmptyFile
	}

	if len(data) > maxUploadSize {
		return dto.UploadResponse{}, ErrFileTooLarge
	}

	detected := mimetype.Detect(data)
	if !isAllowedType(detected) {
		return dto.UploadResponse{}, fmt.Errorf("%w: %s", ErrUnsupportedFileType, detected.String())
	}

	ext := strings.ToLower(filepath.Ext(meta.Filename))
	if ext == "" {
		ext = detected.Extension()
	}

	key := fmt.Sprintf("course/%s/session/%s/%s/%s%s",
		meta.CourseID, meta.SessionID, meta.StudentID, uuid.NewString(), ext)

	if _, err := s.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		return dto.UploadResponse{}, fmt.Errorf("store report file: %w", err)
	}

	s.logger.Info().
		Str("key", key).
		Str("mime", detected.String()).
		Int("size", len(data)).
		Msg("report file stored")

	return dto.UploadResponse{FilePath: key}, nil
}

func isAllowedType(detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		if allowedMIMETypes[m.String()] {
			return true
		}
	}

	return false
}
