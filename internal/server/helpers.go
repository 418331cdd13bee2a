package server

import (
	"errors"

	"devconnect/internal/middleware"
	"devconnect/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter as a positive uint. On failure it
// writes a response with the given status and message and returns
// errResponseWritten. Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string, status int, appErr *models.AppError) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, status, appErr)
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parsePostID reads :id. Malformed ids are reported like a missing post.
func parsePostID(c *fiber.Ctx) (uint, error) {
	return parseID(c, "id", fiber.StatusNotFound, models.NewNotFoundError("Post not found"))
}

// parseBody decodes the JSON body into dst, writing a 400 on failure.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// currentUserID returns the id stored by the auth guard.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// respondError writes err with the status its code maps to. Internal errors
// are logged with the request context.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed", "error", err)
	}
	return models.RespondWithError(c, status, err)
}
