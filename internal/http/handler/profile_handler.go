package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/julienvb/portfolio-api/internal/app/repository"
	"github.com/julienvb/portfolio-api/internal/app/service"
	"go.uber.org/zap"
)

// ProfileDeps groups dependencies required by profile handlers.
type ProfileDeps struct {
	Logger  *zap.Logger
	Profile service.ProfileService
}

// ProfileHandler serves the public profile and its admin upsert.
type ProfileHandler struct {
	logger  *zap.Logger
	profile service.ProfileService
}

// NewProfileHandler creates a profile handler with the provided dependencies.
func NewProfileHandler(deps ProfileDeps) *ProfileHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{
		logger:  logger,
		profile: deps.Profile,
	}
}

// Register wires profile routes onto the provided router.
func (h *ProfileHandler) Register(router fiber.Router, requireAuth fiber.Handler) {
	profile := router.Group("/api/profile")
	{
		profile.Get("/", h.Get)
		profile.Put("/", requireAuth, h.Put)
	}
}

// ProfileRequest is the upsert payload (full replacement).
type ProfileRequest struct {
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone"`
	LinkedIn      *string `json:"linkedin"`
	GitHub        *string `json:"github"`
	DescriptionFr *string `json:"descriptionFr"`
	DescriptionEn *string `json:"descriptionEn"`
	PhotoID       *string `json:"photoId"`
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	profile, err := h.profile.Get(c.UserContext())
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "profile not found",
			})
		}
		h.logger.Error("failed to get profile", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.JSON(profile)
}

// Put handles PUT /api/profile
func (h *ProfileHandler) Put(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "firstName, lastName and email are required",
		})
	}

	profile, err := h.profile.CreateOrUpdate(c.UserContext(), service.ProfileInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		LinkedIn:      req.LinkedIn,
		GitHub:        req.GitHub,
		DescriptionFr: req.DescriptionFr,
		DescriptionEn: req.DescriptionEn,
		PhotoID:       req.PhotoID,
	})
	if err != nil {
		h.logger.Error("failed to save profile", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(profile)
}
