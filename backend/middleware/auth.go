package middleware

import (
	"pathtracker/backend/config"
	"pathtracker/backend/models"
	"pathtracker/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// AuthMiddleware validates the bearer token and stashes the asserted
// identity in the request locals for the handlers.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := utils.ExtractIdentityFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFromCtx returns the identity set by AuthMiddleware, or nil when
// the request is unauthenticated.
func IdentityFromCtx(c *fiber.Ctx) *models.Identity {
	identity, _ := c.Locals(identityKey).(*models.Identity)
	return identity
}
