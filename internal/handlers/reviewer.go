package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/middleware"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
)

// ReviewerHandler handles the reviewer registry.
type ReviewerHandler struct {
	reviewers *services.ReviewerService
}

// NewReviewerHandler creates a new reviewer handler.
func NewReviewerHandler(reviewers *services.ReviewerService) *ReviewerHandler {
	return &ReviewerHandler{reviewers: reviewers}
}

// RegisterReviewer adds a reviewer to the registry. Supervisor only.
func (h *ReviewerHandler) RegisterReviewer(c *fiber.Ctx) error {
	var req struct {
		ReviewerID string `json:"reviewer_id" validate:"required"`
		Name       string `json:"name" validate:"required"`
		Phone      string `json:"phone"`
		Role       string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "reviewer_id and name are required",
		})
	}

	reviewer, err := h.reviewers.Register(middleware.CallerIdentity(c),
		req.ReviewerID, req.Name, req.Phone, models.ReviewerRole(req.Role))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"reviewer": reviewer,
	})
}

// ListReviewers returns all registered reviewers.
func (h *ReviewerHandler) ListReviewers(c *fiber.Ctx) error {
	reviewers, err := h.reviewers.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"reviewers": reviewers,
		"count":     len(reviewers),
	})
}
