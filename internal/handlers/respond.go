package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
)

// validate checks request payload structs via their validate tags.
var validate = validator.New()

// respondError maps the engine's typed errors onto HTTP statuses. Anything
// untyped is a 500.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch services.KindOf(err) {
	case services.ErrNotFound:
		status = fiber.StatusNotFound
	case services.ErrInvalidState:
		status = fiber.StatusConflict
	case services.ErrForbidden:
		status = fiber.StatusForbidden
	case services.ErrPreconditionFailed:
		status = fiber.StatusPreconditionFailed
	case services.ErrUnsupportedOperation:
		status = fiber.StatusUnprocessableEntity
	case services.ErrConflict:
		status = fiber.StatusConflict
	case services.ErrValidation:
		status = fiber.StatusBadRequest
	}

	body := fiber.Map{"error": err.Error()}
	if kind := services.KindOf(err); kind != "" {
		body["kind"] = string(kind)
	}
	return c.Status(status).JSON(body)
}

// expectedVersion reads the optimistic-concurrency token from the If-Match
// header; 0 means the caller did not send one.
func expectedVersion(c *fiber.Ctx) int64 {
	v, err := strconv.ParseInt(c.Get("If-Match"), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
