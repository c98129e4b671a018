package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursemaker-go-api/internal/service"
	"github.com/noah-isme/coursemaker-go-api/internal/utils"
)

// GradingHandler exposes the manual regrade endpoint for teachers.
type GradingHandler struct {
	grading service.GradingService
	logger  zerolog.Logger
}

// NewGradingHandler constructs a GradingHandler.
func NewGradingHandler(grading service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		grading: grading,
		logger:  logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Grade handles POST /reports/:id/grade. It runs the grading synchronously so
// the teacher sees failures immediately.
func (h *GradingHandler) Grade(c *fiber.Ctx) error {
	id, err := parseSubmissionID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	if err := h.grading.Grade(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		case errors.Is(err, service.ErrGradingInProgress):
			return utils.SendError(c, fiber.StatusConflict, "grading already in progress")
		default:
			h.logger.Error().Err(err).Uint("submission_id", id).Msg("manual regrade failed")
			return utils.SendError(c, fiber.StatusBadGateway, "grading failed")
		}
	}

	return utils.SendSuccess(c, "submission graded", fiber.Map{"submission_id": id})
}

func parseSubmissionID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
