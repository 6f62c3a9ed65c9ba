package middleware

import (
	"rau/database"
	"rau/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole gates a route to users holding one of the given roles. The role
// is re-checked against the database so revoked users are cut off even with a
// live token.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
		}

		var user models.User
		if err := database.Database.Db.
			Where("id = ? AND is_deleted = false AND is_blocked = false", userId).
			First(&user).Error; err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
		}

		for _, role := range roles {
			if user.Role == role {
				c.Locals("currentUser", &user)
				return c.Next()
			}
		}
		return JsonResponse(c, fiber.StatusForbidden, false, "Access Denied! Insufficient role.", nil)
	}
}
