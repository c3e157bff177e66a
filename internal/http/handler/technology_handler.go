package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
	"github.com/julienvb/portfolio-api/internal/app/service"
	"go.uber.org/zap"
)

// TechnologyDeps groups dependencies required by technology handlers.
type TechnologyDeps struct {
	Logger       *zap.Logger
	Technologies service.TechnologyService
}

// TechnologyHandler serves the public technology listing and the admin CRUD.
type TechnologyHandler struct {
	logger       *zap.Logger
	technologies service.TechnologyService
}

// NewTechnologyHandler creates a technology handler with the provided
// dependencies.
func NewTechnologyHandler(deps TechnologyDeps) *TechnologyHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TechnologyHandler{
		logger:       logger,
		technologies: deps.Technologies,
	}
}

// Register wires technology routes onto the provided router.
func (h *TechnologyHandler) Register(router fiber.Router, requireAuth fiber.Handler) {
	technologies := router.Group("/api/technologies")
	{
		technologies.Get("/", h.List)
		technologies.Post("/", requireAuth, h.Create)
		technologies.Put("/:id", requireAuth, h.Update)
		technologies.Delete("/:id", requireAuth, h.Delete)
	}
}

// TechnologyRequest is the create/update payload.
type TechnologyRequest struct {
	Name     string  `json:"name"`
	Icon     *string `json:"icon"`
	Category *string `json:"category"`
}

// List handles GET /api/technologies
func (h *TechnologyHandler) List(c *fiber.Ctx) error {
	technologies, err := h.technologies.List(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list technologies", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	if technologies == nil {
		technologies = []model.Technology{}
	}
	return c.JSON(technologies)
}

// Create handles POST /api/technologies
func (h *TechnologyHandler) Create(c *fiber.Ctx) error {
	var req TechnologyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	technology, err := h.technologies.Create(c.UserContext(), service.TechnologyInput{
		Name:     req.Name,
		Icon:     req.Icon,
		Category: req.Category,
	})
	if err != nil {
		h.logger.Error("failed to create technology", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(technology)
}

// Update handles PUT /api/technologies/:id
func (h *TechnologyHandler) Update(c *fiber.Ctx) error {
	var req TechnologyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	technology, err := h.technologies.Update(c.UserContext(), c.Params("id"), service.TechnologyInput{
		Name:     req.Name,
		Icon:     req.Icon,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, repository.ErrTechnologyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "technology not found",
			})
		}
		h.logger.Error("failed to update technology", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(technology)
}

// Delete handles DELETE /api/technologies/:id
func (h *TechnologyHandler) Delete(c *fiber.Ctx) error {
	if err := h.technologies.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, repository.ErrTechnologyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "technology not found",
			})
		}
		h.logger.Error("failed to delete technology", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
