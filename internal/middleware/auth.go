package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskmaster/internal/session"
	"taskmaster/pkg/logger"
)

// MemberIDKey is where the authenticated member id is stored in the
// request locals once the bearer token has been resolved.
const MemberIDKey = "memberID"

// TokenKey holds the raw bearer token so logout can revoke it.
const TokenKey = "sessionToken"

// RequireSession authenticates the Authorization: Bearer header against
// the session manager. All failure modes answer with the same 401 body.
func RequireSession(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c)
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c)
		}

		memberID, err := sessions.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			logger.SecurityLogger.Warn("Rejected bearer token",
				zap.String("method", c.Method()), zap.String("url", c.OriginalURL()))
			return unauthorized(c)
		}

		c.Locals(MemberIDKey, memberID)
		c.Locals(TokenKey, parts[1])
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"detail": "Not authenticated",
	})
}
