package middleware

import (
	"github.com/gofiber/fiber/v2"

	"skillmap-backend/config"
	"skillmap-backend/utils"
)

// AuthMiddleware rejects requests without a valid token before they reach the
// handlers. The error body stays generic regardless of what failed.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, err := utils.ExtractClaimsFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}
