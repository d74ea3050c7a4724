// handlers/routes.go
package handlers

import (
	"context"
	"log"

	"community-helper-bot/config"
	"community-helper-bot/middleware"
	"community-helper-bot/services"
	"community-helper-bot/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
)

// UpdateSink queues webhook deliveries for the worker pool.
type UpdateSink interface {
	Submit(ctx context.Context, update tgbotapi.Update) error
}

func SetupRoutes(app *fiber.App, cfg *config.Config, store *services.Store, sink UpdateSink) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := store.Ping(c.UserContext()); err != nil {
			log.Printf("❌ [HEALTH] Database ping failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "database unavailable",
			})
		}
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	if cfg.WebhookMode() {
		app.Post(config.WebhookPath+"/:secret", middleware.WebhookSecretMiddleware(cfg.WebhookSecret), func(c *fiber.Ctx) error {
			update, err := telegram.ParseUpdate(c.Body())
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid update"})
			}
			if err := sink.Submit(c.UserContext(), update); err != nil {
				log.Printf("❌ [WEBHOOK] Could not queue update %d: %v", update.UpdateID, err)
				return c.SendStatus(fiber.StatusServiceUnavailable)
			}
			return c.SendStatus(fiber.StatusOK)
		})
	}

	// 🔐 Admin API is mounted only when a token is configured
	if cfg.AdminAPIToken == "" {
		return
	}
	admin := app.Group("/admin", middleware.AdminTokenMiddleware(cfg.AdminAPIToken))

	admin.Get("/top-referrers", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		if limit < 1 || limit > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be between 1 and 100"})
		}

		top, err := store.TopReferrers(c.UserContext(), limit)
		if err != nil {
			log.Printf("❌ [ADMIN_API] Top referrers failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load referrers"})
		}
		return c.JSON(fiber.Map{"referrers": top})
	})

	admin.Get("/settings", func(c *fiber.Ctx) error {
		moderation, err := store.GetModerationFlag(c.UserContext())
		if err != nil {
			log.Printf("❌ [ADMIN_API] Settings failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load settings"})
		}
		return c.JSON(fiber.Map{
			"moderation_mode":     moderation,
			"reward_threshold":    cfg.RewardThreshold,
			"spam_window_seconds": int(cfg.SpamWindow.Seconds()),
		})
	})
}
