package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/julienvb/portfolio-api/internal/http/session"
)

// SessionKey is the fiber.Ctx local holding the resolved *session.Session.
const SessionKey = "session"

// RequireAuth rejects requests without a valid admin session.
func RequireAuth(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		sess, err := sessions.Get(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		c.Locals(SessionKey, sess)
		return c.Next()
	}
}
