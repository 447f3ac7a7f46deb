package middleware

import (
	"github.com/arzan03/MediBook/internal/models"
	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware ensures that only users with "admin" role can access
// admin routes. It runs after AuthMiddleware, which stashes the role.
func AdminMiddleware(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Access denied. Admins only."})
	}
	return c.Next()
}
