package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/middleware"
	"github.com/noah-isme/coursemaker-go-api/internal/service"
	"github.com/noah-isme/coursemaker-go-api/internal/utils"
)

// AdminStudentHandler exposes the teacher-side student account operations.
type AdminStudentHandler struct {
	admin  service.AdminStudentService
	logger zerolog.Logger
}

// NewAdminStudentHandler constructs an AdminStudentHandler.
func NewAdminStudentHandler(admin service.AdminStudentService, logger zerolog.Logger) *AdminStudentHandler {
	return &AdminStudentHandler{
		admin:  admin,
		logger: logger.With().Str("component", "admin_student_handler").Logger(),
	}
}

// RevealAccessKey handles GET /students/:id/access-key.
func (h *AdminStudentHandler) RevealAccessKey(c *fiber.Ctx) error {
	studentID := c.Params("id")

	resp, err := h.admin.RevealAccessKey(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStudentID) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Str("student_id", studentID).Msg("access key reveal failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "access key revealed", resp)
}

// ResetEmail handles POST /students/:id/reset-email.
func (h *AdminStudentHandler) ResetEmail(c *fiber.Ctx) error {
	studentID := c.Params("id")

	if err := h.admin.ResetEmail(c.Context(), studentID); err != nil {
		if errors.Is(err, service.ErrInvalidStudentID) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Str("student_id", studentID).Msg("email reset failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "student email reset", fiber.Map{"student_id": studentID})
}

// ToggleEnrollment handles POST /courses/:id/enrollments/:sid/status.
func (h *AdminStudentHandler) ToggleEnrollment(c *fiber.Ctx) error {
	courseID := c.Params("id")
	studentID := c.Params("sid")
	teacherID := middleware.UserIDFromContext(c)

	var payload dto.ToggleEnrollmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	resp, err := h.admin.ToggleEnrollment(c.Context(), teacherID, courseID, studentID, payload)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			return utils.SendError(c, fiber.StatusBadRequest, "validation failed: "+validationErrs.Error())
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrNotCourseOwner):
			return utils.SendError(c, fiber.StatusForbidden, "course belongs to another teacher")
		case errors.Is(err, service.ErrEnrollmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "enrollment not found")
		default:
			h.logger.Error().Err(err).Str("course_id", courseID).Str("student_id", studentID).Msg("enrollment toggle failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "enrollment status updated", resp)
}
