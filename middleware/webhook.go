package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
)

// WebhookSecretMiddleware accepts webhook deliveries only when the :secret
// path segment matches. Telegram is the only party that knows the full URL.
func WebhookSecretMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if subtle.ConstantTimeCompare([]byte(c.Params("secret")), []byte(secret)) != 1 {
			log.Printf("🚫 [WEBHOOK] Rejected delivery from %s", c.IP())
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.Next()
	}
}
