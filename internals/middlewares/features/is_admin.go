package middlewares

import (
	"github.com/gofiber/fiber/v2"

	helperAuth "lembagaku_backend/internals/helpers/auth"
)

// IsAdmin: guard untuk group /api/a (admin & superadmin).
func IsAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helperAuth.IsAdmin(c) {
			return fiber.NewError(fiber.StatusForbidden, "Hanya admin yang diizinkan")
		}
		return c.Next()
	}
}

// IsSuperAdmin: guard untuk operasi destruktif lintas lembaga.
func IsSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helperAuth.IsSuperAdmin(c) {
			return fiber.NewError(fiber.StatusForbidden, "Hanya superadmin yang diizinkan")
		}
		return c.Next()
	}
}
