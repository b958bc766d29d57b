package middleware

import (
	"github.com/gofiber/fiber/v2"

	"filesmanager/internal/services"
)

// UserIDKey is the locals key under which RequireSession stores the
// authenticated user ID.
const UserIDKey = "user_id"

// HeaderToken is the session header checked on every protected route.
const HeaderToken = "X-Token"

// RequireSession resolves the X-Token header to a user ID and stores
// it in the request locals, or rejects the request with 401.
func RequireSession(access *services.AccessController) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := access.Authenticate(c.UserContext(), c.Get(HeaderToken))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}
