package middleware

import (
	"routinepro/backend/config"
	"routinepro/backend/models"
	"routinepro/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, err := utils.ExtractTokenClaims(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// AdminMiddleware gates admin routes. The role claim is checked against the
// database, not trusted from the token alone.
func AdminMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return requireRole(db, cfg, models.RoleAdmin, "This is a protected route for admins")
}

// ConsumerMiddleware gates consumer routes.
func ConsumerMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return requireRole(db, cfg, models.RoleConsumer, "This is a protected route for consumers")
}

func requireRole(db *gorm.DB, cfg *config.Config, role, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ExtractTokenClaims(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		if user.AccountType != role {
			return utils.Forbidden(c, message)
		}

		return c.Next()
	}
}
