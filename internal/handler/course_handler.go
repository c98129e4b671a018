package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/coursemaker-go-api/internal/dto"
	"github.com/noah-isme/coursemaker-go-api/internal/middleware"
	"github.com/noah-isme/coursemaker-go-api/internal/service"
	"github.com/noah-isme/coursemaker-go-api/internal/utils"
)

// CourseHandler exposes course creation.
type CourseHandler struct {
	courses service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs a CourseHandler.
func NewCourseHandler(courses service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Create handles POST /courses.
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var payload dto.CreateCourseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacherID := middleware.UserIDFromContext(c)

	resp, err := h.courses.Create(c.Context(), teacherID, payload)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			return utils.SendError(c, fiber.StatusBadRequest, "validation failed: "+validationErrs.Error())
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return utils.SendError(c, fiber.StatusConflict, "course already exists")
		default:
			h.logger.Error().Err(err).Str("course_id", payload.CourseID).Msg("course creation failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", resp)
}
