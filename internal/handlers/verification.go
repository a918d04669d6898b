package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/middleware"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
)

// VerificationHandler handles item-level verification actions.
type VerificationHandler struct {
	verification *services.VerificationService
}

// NewVerificationHandler creates a new verification handler.
func NewVerificationHandler(verification *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

type itemActionRequest struct {
	Comments string `json:"comments"`
}

type itemAction func(reviewID, itemID string, caller services.Identity, comments string, expectedVersion int64) (*models.VerificationItem, error)

func (h *VerificationHandler) handle(c *fiber.Ctx, action itemAction) error {
	var req itemActionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	item, err := action(c.Params("id"), c.Params("itemID"), middleware.CallerIdentity(c), req.Comments, expectedVersion(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"item":    item,
	})
}

// VerifyItem marks an item verified.
func (h *VerificationHandler) VerifyItem(c *fiber.Ctx) error {
	return h.handle(c, h.verification.Verify)
}

// RejectItem marks an item rejected; comments are mandatory.
func (h *VerificationHandler) RejectItem(c *fiber.Ctx) error {
	return h.handle(c, h.verification.Reject)
}

// WaiveItem waives a non-document item; comments are mandatory.
func (h *VerificationHandler) WaiveItem(c *fiber.Ctx) error {
	return h.handle(c, h.verification.Waive)
}

// AnnotateItem updates an item's comments without changing its status.
func (h *VerificationHandler) AnnotateItem(c *fiber.Ctx) error {
	return h.handle(c, h.verification.Annotate)
}
