package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v3"
)

const HeaderWebhookSecret = "X-Webhook-Secret"

// WebhookSecret guards scheduler callbacks with a shared secret. An empty
// configured secret rejects every call.
func WebhookSecret(secret string) fiber.Handler {
	want := []byte(secret)
	return func(c fiber.Ctx) error {
		got := []byte(c.Get(HeaderWebhookSecret))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			return abort(c, fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Next()
	}
}
