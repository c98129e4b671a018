package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/service"
	"github.com/noah-isme/coursemaker-go-api/internal/utils"
)

// SubmissionHandler exposes the report submission endpoint.
type SubmissionHandler struct {
	submissions service.SubmissionService
	logger      zerolog.Logger
}

// NewSubmissionHandler constructs a SubmissionHandler.
func NewSubmissionHandler(submissions service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		logger:      logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Submit handles POST /reports.
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	var payload dto.SubmitReportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.submissions.Submit(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "report submitted", resp)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return utils.SendError(c, fiber.StatusBadRequest, "validation failed: "+validationErrs.Error())
	case errors.Is(err, service.ErrInvalidStudentID):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid student id")
	case errors.Is(err, service.ErrInvalidAccessKey):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid access key")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusForbidden, "not enrolled in this course")
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	default:
		h.logger.Error().Err(err).Msg("report submission failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
