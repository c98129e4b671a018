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

// ReviewHandler exposes the teacher review endpoint.
type ReviewHandler struct {
	reviews service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(reviews service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With().Str("component", "review_handler").Logger(),
	}
}

// Get handles GET /reports/:id.
func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	id, err := parseSubmissionID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	resp, err := h.reviews.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		}
		h.logger.Error().Err(err).Uint("submission_id", id).Msg("submission lookup failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "submission", resp)
}

// Review handles POST /reports/:id/review.
func (h *ReviewHandler) Review(c *fiber.Ctx) error {
	id, err := parseSubmissionID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var payload dto.ReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.reviews.Review(c.Context(), id, payload)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			return utils.SendError(c, fiber.StatusBadRequest, "validation failed: "+validationErrs.Error())
		case errors.Is(err, service.ErrSubmissionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		case errors.Is(err, service.ErrSubmissionNotGraded):
			return utils.SendError(c, fiber.StatusConflict, "submission has not been graded yet")
		default:
			h.logger.Error().Err(err).Uint("submission_id", id).Msg("review failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "review recorded", resp)
}
