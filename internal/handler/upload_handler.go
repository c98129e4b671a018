package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursemaker-go-api/internal/service"
	"github.com/noah-isme/coursemaker-go-api/internal/utils"
)

// UploadHandler exposes the report file upload endpoint.
type UploadHandler struct {
	uploads service.UploadService
	logger  zerolog.Logger
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(uploads service.UploadService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		logger:  logger.With().Str("component", "upload_handler").Logger(),
	}
}

// Upload handles POST /uploads. The report file travels as the multipart part
// named "file"; identity and placement come from the other form fields.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	meta := service.UploadMeta{
		CourseID:  c.FormValue("course_id"),
		SessionID: c.FormValue("session_id"),
		StudentID: c.FormValue("student_id"),
		AccessKey: c.FormValue("access_key"),
		Filename:  fileHeader.Filename,
	}
	if meta.CourseID == "" || meta.SessionID == "" || meta.StudentID == "" || meta.AccessKey == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "course_id, session_id, student_id and access_key are required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unreadable file")
	}

	resp, err := h.uploads.Upload(c.Context(), meta, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStudentID):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid student id")
		case errors.Is(err, service.ErrInvalidAccessKey):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid access key")
		case errors.Is(err, service.ErrUnsupportedFileType):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, service.ErrFileTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds the maximum allowed size")
		case errors.Is(err, service.ErrEmptyFile):
			return utils.SendError(c, fiber.StatusBadRequest, "file is empty")
		default:
			h.logger.Error().Err(err).Str("student_id", meta.StudentID).Msg("upload failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "file stored", resp)
}
