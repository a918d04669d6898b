package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/middleware"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
)

// AssignmentHandler handles reviewer assignment of reviews.
type AssignmentHandler struct {
	assignment *services.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(assignment *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignment: assignment}
}

// AssignAutomatic hands a pending review to the least-loaded reviewer.
func (h *AssignmentHandler) AssignAutomatic(c *fiber.Ctx) error {
	review, err := h.assignment.AssignAutomatic(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}

// AssignManual assigns or reassigns a review to a named reviewer.
// Supervisor only.
func (h *AssignmentHandler) AssignManual(c *fiber.Ctx) error {
	var req struct {
		ReviewerID string `json:"reviewer_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "reviewer_id is required",
		})
	}

	review, err := h.assignment.AssignManual(c.Params("id"), req.ReviewerID, middleware.CallerIdentity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}

// Unassign releases a review back to the pending queue. Supervisor only.
func (h *AssignmentHandler) Unassign(c *fiber.Ctx) error {
	review, err := h.assignment.Unassign(c.Params("id"), middleware.CallerIdentity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}
