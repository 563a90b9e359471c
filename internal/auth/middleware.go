package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// OwnerIDKey is the fiber.Ctx locals key holding the authenticated owner id.
const OwnerIDKey = "owner_id"

// OptionalAuth records the owner id when a valid bearer token is present and
// lets anonymous requests through. A malformed or invalid token is rejected.
func OptionalAuth(jwtService *JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		return authenticate(c, jwtService)
	}
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(jwtService *JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return unauthorized(c, "Authorization header required")
		}
		return authenticate(c, jwtService)
	}
}

// OwnerID returns the owner id stored by the middleware, or "".
func OwnerID(c *fiber.Ctx) string {
	if id, ok := c.Locals(OwnerIDKey).(string); ok {
		return id
	}
	return ""
}

func authenticate(c *fiber.Ctx, jwtService *JWTService) error {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return unauthorized(c, "Invalid authorization header format")
	}

	claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return unauthorized(c, "Invalid or expired token")
	}

	c.Locals(OwnerIDKey, claims.Subject)
	return c.Next()
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
