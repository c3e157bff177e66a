package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// CORS returns a CORS middleware locked to the configured SPA origin.
// Credentials are only allowed for a concrete origin, never for "*".
func CORS(allowOrigin string) fiber.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}

	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", allowOrigin)
		c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Set("Access-Control-Expose-Headers", "Content-Length, Content-Type")
		c.Set("Access-Control-Max-Age", "86400")
		if allowOrigin != "*" {
			c.Set("Access-Control-Allow-Credentials", "true")
			c.Set("Vary", "Origin")
		}

		if c.Method() == "OPTIONS" {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
