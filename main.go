package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"community-helper-bot/config"
	"community-helper-bot/conversation"
	"community-helper-bot/database"
	"community-helper-bot/handlers"
	"community-helper-bot/services"
	"community-helper-bot/telegram"
	"community-helper-bot/utils"
	"community-helper-bot/workers"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const updateQueueSize = 100

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration:", err)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			log.Fatal("failed to initialize sentry:", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := services.NewStore(db)
	conversations := conversation.NewStore(cfg.ConversationTTL)

	scheduler, err := services.NewScheduler()
	if err != nil {
		log.Fatal("failed to create scheduler:", err)
	}

	// --- Spam cooldown: shared through Redis when configured ---
	var cooldown services.Cooldown
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL:", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to reach redis:", err)
		}
		cooldown = services.NewRedisCooldown(rdb, cfg.SpamWindow)
		log.Println("✅ Spam cooldown backed by Redis")
	} else {
		memory := services.NewMemoryCooldown(cfg.SpamWindow)
		cooldown = memory
		if err := scheduler.Every("cooldown-evict", time.Minute, func() {
			if n := memory.Evict(); n > 0 {
				log.Printf("🧹 [COOLDOWN] Evicted %d expired entries", n)
			}
		}); err != nil {
			log.Fatal("failed to schedule cooldown eviction:", err)
		}
	}

	if err := scheduler.Every("conversation-expire", time.Minute, func() {
		if n := conversations.Expire(); n > 0 {
			log.Printf("🧹 [WORKFLOW] Expired %d stale conversations", n)
		}
	}); err != nil {
		log.Fatal("failed to schedule conversation expiry:", err)
	}

	client, err := telegram.NewClient(cfg.BotToken, cfg.TelegramDebug, cfg.SendRatePerSecond)
	if err != nil {
		log.Fatal("failed to connect to telegram:", err)
	}
	log.Printf("✅ Authorized on account @%s", client.Username())

	opts := handlers.Options{
		Config:        cfg,
		Store:         store,
		Cooldown:      cooldown,
		Conversations: conversations,
		Messenger:     client,
	}
	if cfg.MediaArchiveEnabled() {
		archive, err := utils.NewMediaArchive(ctx, utils.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			Bucket:          cfg.R2Bucket,
		})
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		opts.Archive = archive
		log.Println("✅ Media archive enabled")
	}

	bot := handlers.NewBot(opts)

	// Queued updates drain on shutdown, so workers get their own context.
	pool := workers.NewUpdatePool(bot, cfg.WorkerShards, updateQueueSize)
	pool.Start(context.Background())

	scheduler.Start()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())

	prometheus := fiberprometheus.New("community_helper_bot")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	handlers.SetupRoutes(app, cfg, store, pool)

	if cfg.WebhookMode() {
		if err := client.SetWebhook(cfg.WebhookEndpoint()); err != nil {
			log.Fatal("failed to register webhook:", err)
		}
		log.Println("✅ Receiving updates by webhook")
	} else {
		if err := client.RemoveWebhook(); err != nil {
			log.Fatal("failed to remove webhook:", err)
		}
		go workers.PollUpdates(ctx, client.Updates(30), pool)
		log.Println("✅ Receiving updates by long polling")
	}

	go func() {
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.HTTPPort)

	<-ctx.Done()
	log.Println("Shutting down...")

	if !cfg.WebhookMode() {
		client.StopUpdates()
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	pool.Stop()
	if err := scheduler.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
}
