package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
	"github.com/julienvb/portfolio-api/internal/app/service"
	"go.uber.org/zap"
)

// ContactDeps groups dependencies required by contact handlers.
type ContactDeps struct {
	Logger   *zap.Logger
	Contacts service.ContactService
}

// ContactHandler serves the public contact form and the admin inbox.
type ContactHandler struct {
	logger   *zap.Logger
	contacts service.ContactService
}

// NewContactHandler creates a contact handler with the provided dependencies.
func NewContactHandler(deps ContactDeps) *ContactHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactHandler{
		logger:   logger,
		contacts: deps.Contacts,
	}
}

// Register wires contact routes onto the provided router.
func (h *ContactHandler) Register(router fiber.Router, requireAuth fiber.Handler) {
	contacts := router.Group("/api/contacts")
	{
		contacts.Post("/", h.Submit)
		contacts.Get("/", requireAuth, h.List)
		contacts.Patch("/:id/read", requireAuth, h.MarkRead)
		contacts.Delete("/:id", requireAuth, h.Delete)
	}
}

// ContactRequest is the public submission payload.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r ContactRequest) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	email := strings.TrimSpace(r.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "a valid email is required"
	}
	if len(strings.TrimSpace(r.Message)) < 10 {
		return "message must be at least 10 characters"
	}
	return ""
}

// Submit handles POST /api/contacts
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	contact, err := h.contacts.Submit(c.UserContext(), service.SubmitContactInput{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	})
	if err != nil {
		h.logger.Error("failed to submit contact message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(contact)
}

// List handles GET /api/contacts
func (h *ContactHandler) List(c *fiber.Ctx) error {
	contacts, err := h.contacts.List(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list contact messages", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return c.JSON(contacts)
}

// MarkRead handles PATCH /api/contacts/:id/read
func (h *ContactHandler) MarkRead(c *fiber.Ctx) error {
	contact, err := h.contacts.MarkRead(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "contact message not found",
			})
		}
		h.logger.Error("failed to mark contact message read", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.JSON(contact)
}

// Delete handles DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	if err := h.contacts.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "contact message not found",
			})
		}
		h.logger.Error("failed to delete contact message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
