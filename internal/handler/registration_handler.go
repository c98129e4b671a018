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

// RegistrationHandler exposes student registration and access key issuance.
type RegistrationHandler struct {
	registration service.RegistrationService
	logger       zerolog.Logger
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(registration service.RegistrationService, logger zerolog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registration: registration,
		logger:       logger.With().Str("component", "registration_handler").Logger(),
	}
}

// Register handles POST /students/register.
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var payload dto.RegisterStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.registration.Register(c.Context(), payload)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			return utils.SendError(c, fiber.StatusBadRequest, "validation failed: "+validationErrs.Error())
		case errors.Is(err, service.ErrUnknownStudent):
			return utils.SendError(c, fiber.StatusNotFound, "unknown student id")
		case errors.Is(err, service.ErrEmailRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "email is required to claim this account")
		case errors.Is(err, service.ErrEmailMismatch):
			return utils.SendError(c, fiber.StatusConflict, "email does not match the registered address")
		default:
			h.logger.Error().Err(err).Str("student_id", payload.StudentID).Msg("registration failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registration completed", resp)
}
