package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/julienvb/portfolio-api/internal/app/repository"
	"github.com/julienvb/portfolio-api/internal/app/service"
	"go.uber.org/zap"
)

// maxPhotoSize caps uploads at 5 MiB.
const maxPhotoSize = 5 << 20

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// PhotoDeps groups dependencies required by photo handlers.
type PhotoDeps struct {
	Logger *zap.Logger
	Photos service.PhotoService
}

// PhotoHandler serves admin photo upload and removal.
type PhotoHandler struct {
	logger *zap.Logger
	photos service.PhotoService
}

// NewPhotoHandler creates a photo handler with the provided dependencies.
func NewPhotoHandler(deps PhotoDeps) *PhotoHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhotoHandler{
		logger: logger,
		photos: deps.Photos,
	}
}

// Register wires photo routes onto the provided router. All photo routes are
// admin-only.
func (h *PhotoHandler) Register(router fiber.Router, requireAuth fiber.Handler) {
	photos := router.Group("/api/photos", requireAuth)
	{
		photos.Post("/", h.Upload)
		photos.Get("/:id", h.Get)
		photos.Delete("/:id", h.Delete)
	}
}

// Upload handles POST /api/photos (multipart, field "file")
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "a multipart file field named \"file\" is required",
		})
	}

	if header.Size > maxPhotoSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "file exceeds the 5 MiB limit",
		})
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedPhotoTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unsupported content type",
		})
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	defer file.Close()

	photo, err := h.photos.Upload(c.UserContext(), service.UploadPhotoInput{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		if errors.Is(err, service.ErrStorageDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "photo storage is not configured",
			})
		}
		h.logger.Error("failed to upload photo", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(photo)
}

// Get handles GET /api/photos/:id
func (h *PhotoHandler) Get(c *fiber.Ctx) error {
	photo, err := h.photos.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "photo not found",
			})
		}
		h.logger.Error("failed to get photo", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.JSON(photo)
}

// Delete handles DELETE /api/photos/:id
func (h *PhotoHandler) Delete(c *fiber.Ctx) error {
	if err := h.photos.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "photo not found",
			})
		}
		h.logger.Error("failed to delete photo", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
