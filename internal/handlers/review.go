package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
)

// ReviewHandler handles review creation, retrieval, and listing.
type ReviewHandler struct {
	reviews *services.ReviewService
	listing *services.ListingService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews *services.ReviewService, listing *services.ListingService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, listing: listing}
}

// CreateReview opens a QC review for an application.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	var req struct {
		ApplicationID string `json:"application_id" validate:"required"`
		Priority      string `json:"priority"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "application_id is required",
		})
	}

	review, err := h.reviews.CreateReview(req.ApplicationID, models.ReviewPriority(req.Priority))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}

// GetReview returns one review with its items.
func (h *ReviewHandler) GetReview(c *fiber.Ctx) error {
	review, err := h.reviews.GetReview(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}

// ListReviews returns a filtered, sorted page of review projections.
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	filter := models.ReviewFilter{
		Status:        models.ReviewStatus(c.Query("status")),
		Priority:      models.ReviewPriority(c.Query("priority")),
		AssignedTo:    c.Query("assigned_to"),
		ApplicationID: c.Query("application_id"),
		BorrowerName:  c.Query("borrower_name"),
		SchoolID:      c.Query("school_id"),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("created_from")); err == nil {
		filter.CreatedFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("created_to")); err == nil {
		filter.CreatedTo = &to
	}

	sortBy := models.ReviewSort{
		Key:        models.ReviewSortKey(c.Query("sort_by")),
		Descending: c.Query("sort_dir") == "desc",
	}
	page := models.ReviewPage{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}

	list, err := h.listing.List(filter, sortBy, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"reviews": list.Items,
		"total":   list.Total,
		"page":    page.Page,
	})
}
