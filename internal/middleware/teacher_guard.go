package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursemaker-go-api/internal/repository"
	"github.com/noah-isme/coursemaker-go-api/internal/utils"
)

// TeacherRequired enforces membership in the teacher registry. It is the single
// authorization guard in front of review, access-key reveal, email reset and
// notification operations.
func TeacherRequired(teachers repository.TeacherRepository, logger zerolog.Logger) fiber.Handler {
	guardLogger := logger.With().Str("component", "teacher_guard").Logger()

	return func(c *fiber.Ctx) error {
		userID := UserIDFromContext(c)
		if userID == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		isTeacher, err := teachers.Exists(c.Context(), userID)
		if err != nil {
			guardLogger.Error().Err(err).Str("user_id", userID).Msg("teacher registry lookup failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}

		if !isTeacher {
			return utils.SendError(c, fiber.StatusForbidden, "forbidden: not a teacher")
		}

		return c.Next()
	}
}
