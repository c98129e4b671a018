package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/coursemaker-go-api/internal/utils"
)

// HealthHandler reports process liveness.
type HealthHandler struct {
	appName string
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(appName string) *HealthHandler {
	return &HealthHandler{appName: appName}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "ok", fiber.Map{
		"app":    h.appName,
		"status": "healthy",
	})
}
