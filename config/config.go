package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all bot configuration
type Config struct {
	// Telegram
	BotToken        string `validate:"required"`
	BotUsername     string `validate:"required"`
	MainAdminID     int64  `validate:"required,gt=0"`
	ManagedGroupID  int64  `validate:"required"`
	SupportUsername string
	GroupInviteLink string
	TelegramDebug   bool

	// Database
	DBType      string `validate:"oneof=postgres mysql sqlite"`
	DatabaseURL string `validate:"required"`
	DBMaxConns  int    `validate:"gt=0"`

	// Redis (optional, shared spam cooldown)
	RedisURL string

	// HTTP
	HTTPPort      string `validate:"required,numeric"`
	AdminAPIToken string
	WebhookURL    string `validate:"omitempty,url"`
	WebhookSecret string `validate:"required_with=WebhookURL"`

	// Behaviour
	RewardThreshold   int `validate:"gt=0"`
	SpamWindow        time.Duration
	ConversationTTL   time.Duration
	WorkerShards      int     `validate:"gt=0"`
	SendRatePerSecond float64 `validate:"gt=0"`

	// Error reporting
	SentryDSN string

	// Media archive (Cloudflare R2)
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2Bucket          string
}

var validate = validator.New()

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:        getEnv("BOT_TOKEN", ""),
		BotUsername:     strings.TrimPrefix(getEnv("BOT_USERNAME", ""), "@"),
		MainAdminID:     getEnvAsInt64("MAIN_ADMIN_ID", 0),
		ManagedGroupID:  getEnvAsInt64("MANAGED_GROUP_ID", 0),
		SupportUsername: strings.TrimPrefix(getEnv("SUPPORT_USERNAME", ""), "@"),
		GroupInviteLink: getEnv("GROUP_INVITE_LINK", ""),
		TelegramDebug:   getEnvAsBool("TELEGRAM_DEBUG", false),

		DBType:      getEnv("DB_TYPE", "postgres"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBMaxConns:  getEnvAsInt("DB_MAX_CONNS", 10),

		RedisURL: getEnv("REDIS_URL", ""),

		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		AdminAPIToken: getEnv("ADMIN_API_TOKEN", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),

		RewardThreshold:   getEnvAsInt("REWARD_THRESHOLD", 100),
		SpamWindow:        time.Duration(getEnvAsInt("SPAM_WINDOW_SECONDS", 5)) * time.Second,
		ConversationTTL:   time.Duration(getEnvAsInt("CONVERSATION_TTL_MINUTES", 30)) * time.Minute,
		WorkerShards:      getEnvAsInt("WORKER_SHARDS", 8),
		SendRatePerSecond: getEnvAsFloat("SEND_RATE_PER_SECOND", 25),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		R2AccountID:       getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2Bucket:          getEnv("R2_BUCKET_NAME", ""),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.SpamWindow <= 0 {
		return nil, fmt.Errorf("SPAM_WINDOW_SECONDS must be positive")
	}
	if cfg.ConversationTTL <= 0 {
		return nil, fmt.Errorf("CONVERSATION_TTL_MINUTES must be positive")
	}

	return cfg, nil
}

// WebhookPath is the route Telegram posts updates to, followed by /<secret>.
const WebhookPath = "/telegram/webhook"

// WebhookMode reports whether updates arrive by webhook instead of long polling.
func (c *Config) WebhookMode() bool {
	return c.WebhookURL != "" && c.WebhookSecret != ""
}

// WebhookEndpoint is the URL registered with Telegram: the public base URL,
// the webhook route and the secret path segment.
func (c *Config) WebhookEndpoint() string {
	return strings.TrimRight(c.WebhookURL, "/") + WebhookPath + "/" + c.WebhookSecret
}

// MediaArchiveEnabled reports whether every R2 credential is present.
func (c *Config) MediaArchiveEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2Bucket != ""
}

// ReferralLink builds the deep link that credits referrerID on first /start.
func (c *Config) ReferralLink(referrerID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", c.BotUsername, referrerID)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
