package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/service"
	"go.uber.org/zap"
)

// VisitDeps groups dependencies required by visit handlers.
type VisitDeps struct {
	Logger *zap.Logger
	Visits service.VisitService
}

// VisitHandler implements visit ingestion (public) and the admin query and
// stats endpoints.
type VisitHandler struct {
	logger *zap.Logger
	visits service.VisitService
}

// NewVisitHandler creates a visit handler with the provided dependencies.
func NewVisitHandler(deps VisitDeps) *VisitHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisitHandler{
		logger: logger,
		visits: deps.Visits,
	}
}

// Register wires visit routes onto the provided router. requireAuth guards
// the admin endpoints; ingestion stays anonymous.
func (h *VisitHandler) Register(router fiber.Router, requireAuth fiber.Handler) {
	visits := router.Group("/api/visits")
	{
		visits.Post("/", h.Record)
		visits.Get("/stats", requireAuth, h.Stats)
		visits.Get("/", requireAuth, h.List)
	}
}

// RecordVisitRequest represents the ingestion request body.
type RecordVisitRequest struct {
	VisitorID string `json:"visitorId"`
}

// Record handles POST /api/visits
func (h *VisitHandler) Record(c *fiber.Ctx) error {
	var req RecordVisitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if _, err := uuid.Parse(req.VisitorID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "visitorId must be a valid UUID",
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := h.visits.Record(ctx, service.RecordVisitInput{
		VisitorID: req.VisitorID,
		IP:        clientIP(c),
		UserAgent: c.Get("User-Agent"),
	})
	if err != nil {
		h.logger.Error("failed to record visit", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to record visit",
		})
	}

	if !result.Recorded {
		return c.JSON(fiber.Map{
			"recorded": false,
			"message":  "Within 30-minute window",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"recorded": true,
		"visit": fiber.Map{
			"id":        result.Visit.ID,
			"createdAt": result.Visit.CreatedAt,
		},
	})
}

// ListVisitsResponse represents the admin listing payload.
type ListVisitsResponse struct {
	Visits []model.Visit `json:"visits"`
	Total  int64         `json:"total"`
}

// List handles GET /api/visits
func (h *VisitHandler) List(c *fiber.Ctx) error {
	input := service.ListVisitsInput{
		Country: c.Query("country"),
		City:    c.Query("city"),
		Limit:   c.QueryInt("limit", 100),
		Offset:  c.QueryInt("offset", 0),
	}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "from must be an RFC 3339 timestamp",
			})
		}
		input.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "to must be an RFC 3339 timestamp",
			})
		}
		input.To = &t
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	visits, total, err := h.visits.List(ctx, input)
	if err != nil {
		h.logger.Error("failed to list visits", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list visits",
		})
	}

	if visits == nil {
		visits = []model.Visit{}
	}
	return c.JSON(ListVisitsResponse{Visits: visits, Total: total})
}

// Stats handles GET /api/visits/stats
func (h *VisitHandler) Stats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	stats, err := h.visits.Stats(ctx)
	if err != nil {
		h.logger.Error("failed to compute visit stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to compute visit stats",
		})
	}

	return c.JSON(stats)
}

// clientIP prefers the first X-Forwarded-For hop so visits keep the real
// caller address behind the reverse proxy.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return c.IP()
}
