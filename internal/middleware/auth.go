// Package middleware holds the Fiber middleware shared by every route: the
// auth guard, request logging, tracing and rate limiting.
package middleware

import (
	"context"
	"strings"

	"devconnect/internal/models"
	"devconnect/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// DefaultAuthHeader is the header the guard reads the token from.
const DefaultAuthHeader = "x-auth-token"

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// TokenVerifier resolves a raw token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// AuthRequired rejects requests without a valid token. The token is read from
// header, falling back to "Authorization: Bearer <token>". On success the user
// id is stored in c.Locals("userID") and in the request context.
func AuthRequired(verifier TokenVerifier, header string) fiber.Handler {
	if header == "" {
		header = DefaultAuthHeader
	}
	return func(c *fiber.Ctx) error {
		token := extractToken(c, header)
		if token == "" {
			observability.RecordAuthEvent("token", "missing")
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msgNoToken))
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			observability.RecordAuthEvent("token", "rejected")
			Logger.DebugContext(c.UserContext(), "token rejected", "error", err)
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msgInvalidToken))
		}

		c.Locals("userID", userID)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx, header string) string {
	if token := strings.TrimSpace(c.Get(header)); token != "" {
		return token
	}
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
