package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
	"github.com/julienvb/portfolio-api/internal/app/service"
	"go.uber.org/zap"
)

// ProjectDeps groups dependencies required by project handlers.
type ProjectDeps struct {
	Logger   *zap.Logger
	Projects service.ProjectService
}

// ProjectHandler serves the public project listing and the admin CRUD.
type ProjectHandler struct {
	logger   *zap.Logger
	projects service.ProjectService
}

// NewProjectHandler creates a project handler with the provided dependencies.
func NewProjectHandler(deps ProjectDeps) *ProjectHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectHandler{
		logger:   logger,
		projects: deps.Projects,
	}
}

// Register wires project routes onto the provided router.
func (h *ProjectHandler) Register(router fiber.Router, requireAuth fiber.Handler) {
	projects := router.Group("/api/projects")
	{
		projects.Get("/", h.List)
		projects.Get("/:id", h.Get)
		projects.Post("/", requireAuth, h.Create)
		projects.Put("/:id", requireAuth, h.Update)
		projects.Delete("/:id", requireAuth, h.Delete)
	}
}

// ProjectRequest is the create/update payload. TechnologyIDs nil leaves the
// association untouched; an empty slice clears it.
type ProjectRequest struct {
	TitleFr       string   `json:"titleFr"`
	TitleEn       string   `json:"titleEn"`
	DescriptionFr string   `json:"descriptionFr"`
	DescriptionEn string   `json:"descriptionEn"`
	URL           *string  `json:"url"`
	GitHubURL     *string  `json:"githubUrl"`
	ImageURLs     []string `json:"imageUrls"`
	Published     bool     `json:"published"`
	TechnologyIDs []string `json:"technologyIds"`
}

func (r ProjectRequest) validate() string {
	if r.TitleFr == "" || r.TitleEn == "" {
		return "titleFr and titleEn are required"
	}
	if r.DescriptionFr == "" || r.DescriptionEn == "" {
		return "descriptionFr and descriptionEn are required"
	}
	return ""
}

func (r ProjectRequest) input() service.ProjectInput {
	return service.ProjectInput{
		TitleFr:       r.TitleFr,
		TitleEn:       r.TitleEn,
		DescriptionFr: r.DescriptionFr,
		DescriptionEn: r.DescriptionEn,
		URL:           r.URL,
		GitHubURL:     r.GitHubURL,
		ImageURLs:     r.ImageURLs,
		Published:     r.Published,
		TechnologyIDs: r.TechnologyIDs,
	}
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	var published *bool
	if raw := c.Query("published"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "published must be true or false",
			})
		}
		published = &value
	}

	projects, err := h.projects.List(c.UserContext(), published)
	if err != nil {
		h.logger.Error("failed to list projects", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if projects == nil {
		projects = []model.Project{}
	}
	return c.JSON(projects)
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	project, err := h.projects.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "project not found",
			})
		}
		h.logger.Error("failed to get project", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.JSON(project)
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	project, err := h.projects.Create(c.UserContext(), req.input())
	if err != nil {
		h.logger.Error("failed to create project", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// Update handles PUT /api/projects/:id
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	project, err := h.projects.Update(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "project not found",
			})
		}
		h.logger.Error("failed to update project", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(project)
}

// Delete handles DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	if err := h.projects.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "project not found",
			})
		}
		h.logger.Error("failed to delete project", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
