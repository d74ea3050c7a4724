package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"community-helper-bot/metrics"
	"community-helper-bot/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleUpdate classifies one update and runs the matching flow. Errors are
// scoped to the update; private senders get a generic retry notice.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	in, ok := telegram.FromUpdate(update)
	if !ok {
		return nil
	}

	kind := string(in.ChatKind)
	metrics.Updates.WithLabelValues(kind).Inc()
	start := time.Now()
	defer func() {
		metrics.UpdateDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	log.Printf("📨 [DISPATCH] update=%d author=%d chat=%d kind=%s", in.UpdateID, in.AuthorID, in.ChatID, in.ChatKind)

	var err error
	switch {
	case in.ChatKind == telegram.ChatPrivate:
		err = b.handlePrivate(ctx, in)
		if err != nil {
			if replyErr := b.reply(ctx, in.ChatID, txtTryAgain); replyErr != nil {
				log.Printf("⚠️  [DISPATCH] Could not send retry notice to %d: %v", in.ChatID, replyErr)
			}
		}
	case in.ChatKind.IsGroup():
		if in.ChatID != b.cfg.ManagedGroupID {
			return nil
		}
		err = b.handleGroup(ctx, in)
	}

	if err != nil {
		metrics.HandlerErrors.WithLabelValues(kind).Inc()
		return fmt.Errorf("update %d from %d: %w", in.UpdateID, in.AuthorID, err)
	}
	return nil
}
