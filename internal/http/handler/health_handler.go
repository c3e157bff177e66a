package handler

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Register wires the health route onto the provided router.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/api/health", h.Check)
}

// Check handles GET /api/health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
