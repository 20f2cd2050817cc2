package middleware

import "github.com/gofiber/fiber/v3"

// abort ends the chain with the same JSON error body the handlers use.
func abort(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
