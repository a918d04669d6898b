package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/middleware"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
)

// DecisionHandler handles terminal approve/return submissions.
type DecisionHandler struct {
	decisions *services.DecisionService
}

// NewDecisionHandler creates a new decision handler.
func NewDecisionHandler(decisions *services.DecisionService) *DecisionHandler {
	return &DecisionHandler{decisions: decisions}
}

// SubmitDecision records the terminal outcome of a review.
func (h *DecisionHandler) SubmitDecision(c *fiber.Ctx) error {
	var req struct {
		Decision     string `json:"decision" validate:"required"`
		ReturnReason string `json:"return_reason"`
		Notes        string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "decision is required",
		})
	}

	review, err := h.decisions.SubmitDecision(
		c.Params("id"),
		middleware.CallerIdentity(c),
		models.Decision(req.Decision),
		models.ReturnReason(req.ReturnReason),
		req.Notes,
		expectedVersion(c),
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}
