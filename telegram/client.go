package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"community-helper-bot/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Client wraps the Bot API with an outbound rate limit.
type Client struct {
	api     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

func NewClient(token string, debug bool, ratePerSecond float64) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = debug
	log.Printf("🤖 [TELEGRAM] Authorized as @%s", api.Self.UserName)

	burst := int(ratePerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}, nil
}

func (c *Client) Username() string {
	return c.api.Self.UserName
}

// Send delivers one message, waiting for the rate limiter first.
func (c *Client) Send(ctx context.Context, out Outgoing) error {
	chattable, err := out.Chattable()
	if err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := c.api.Send(chattable); err != nil {
		return fmt.Errorf("send to chat %d: %w", out.ChatID, err)
	}
	return nil
}

// Delete removes a message. Callers treat failures as non-fatal.
func (c *Client) Delete(ctx context.Context, chatID int64, messageID int) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

// Download fetches the bytes of a file previously sent to the bot.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	url, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file %s: %w", fileID, err)
	}
	return utils.Download(ctx, url)
}

// Updates starts long polling. The channel closes after StopUpdates.
func (c *Client) Updates(timeoutSeconds int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSeconds
	return c.api.GetUpdatesChan(u)
}

func (c *Client) StopUpdates() {
	c.api.StopReceivingUpdates()
}

// SetWebhook registers url with Telegram; long polling stops working afterwards.
func (c *Client) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook: %w", err)
	}
	if _, err := c.api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	log.Printf("🔗 [TELEGRAM] Webhook registered")
	return nil
}

func (c *Client) RemoveWebhook() error {
	_, err := c.api.Request(tgbotapi.DeleteWebhookConfig{})
	return err
}

// ParseUpdate decodes a webhook request body.
func ParseUpdate(body []byte) (tgbotapi.Update, error) {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return update, fmt.Errorf("decode update: %w", err)
	}
	return update, nil
}
