package workers

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Submitter queues an update for handling.
type Submitter interface {
	Submit(ctx context.Context, update tgbotapi.Update) error
}

// PollUpdates forwards long-polled updates into the pool until ctx is done or
// the channel closes.
func PollUpdates(ctx context.Context, updates <-chan tgbotapi.Update, pool Submitter) {
	log.Println("Starting Telegram long polling...")
	for {
		select {
		case <-ctx.Done():
			log.Println("Telegram polling stopped.")
			return
		case update, ok := <-updates:
			if !ok {
				log.Println("Telegram update channel closed.")
				return
			}
			if err := pool.Submit(ctx, update); err != nil {
				log.Printf("❌ [POLLER] Dropped update %d: %v", update.UpdateID, err)
			}
		}
	}
}
