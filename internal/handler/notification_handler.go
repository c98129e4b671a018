package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/middleware"
	"github.com/noah-isme/coursemaker-go-api/internal/service"
	"github.com/noah-isme/coursemaker-go-api/internal/utils"
)

// NotificationHandler exposes status notification and status report endpoints.
type NotificationHandler struct {
	notifications service.NotificationService
	logger        zerolog.Logger
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(notifications service.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger.With().Str("component", "notification_handler").Logger(),
	}
}

// Send handles POST /courses/:id/notifications.
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	courseID := c.Params("id")
	teacherID := middleware.UserIDFromContext(c)

	var payload dto.SendNotificationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	result, err := h.notifications.Send(c.Context(), teacherID, courseID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrNotCourseOwner):
			return utils.SendError(c, fiber.StatusForbidden, "course belongs to another teacher")
		default:
			h.logger.Error().Err(err).Str("course_id", courseID).Msg("notification batch failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "notifications dispatched", result)
}

// Status handles GET /courses/:id/students/:sid/status.
func (h *NotificationHandler) Status(c *fiber.Ctx) error {
	courseID := c.Params("id")
	studentID := c.Params("sid")

	report, err := h.notifications.ComposeStatus(c.Context(), courseID, studentID)
	if err != nil {
		h.logger.Error().Err(err).Str("course_id", courseID).Str("student_id", studentID).Msg("status composition failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "status report", report)
}
