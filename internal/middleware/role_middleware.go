package middleware

import "github.com/gofiber/fiber/v2"

// Role membatasi route untuk role tertentu. Dipasang setelah Auth.
func Role(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Akses ditolak"})
		}

		for _, role := range allowedRoles {
			if role == user.Role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Akses ditolak, akses ini hanya untuk Admin!"})
	}
}
