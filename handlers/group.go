package handlers

import (
	"context"
	"strings"

	"community-helper-bot/metrics"
	"community-helper-bot/telegram"
)

// handleGroup serves the managed group: liveness, moderation phrases and the
// response matcher.
func (b *Bot) handleGroup(ctx context.Context, in telegram.Inbound) error {
	if in.Command == "start" {
		return b.reply(ctx, in.ChatID, txtGroupAlive)
	}
	if in.AuthorID == 0 || in.IsBot {
		return nil
	}

	body := strings.TrimSpace(in.Body())
	if body == "" {
		return nil
	}

	switch strings.TrimSpace(in.Text) {
	case phraseModerationOn:
		return b.setModeration(ctx, in, true)
	case phraseModerationOff:
		return b.setModeration(ctx, in, false)
	}

	moderation, err := b.store.GetModerationFlag(ctx)
	if err != nil {
		return err
	}

	action, err := b.responder.HandleGroupText(ctx, in.AuthorID, body, moderation)
	if action.DeleteSource {
		b.deleteBestEffort(ctx, in.ChatID, in.MessageID)
	}
	if err != nil {
		return err
	}
	if action.Response == nil {
		return nil
	}

	out, err := telegram.FromResponse(in.ChatID, action.Response)
	if err != nil {
		return err
	}
	if err := b.send(ctx, out); err != nil {
		return err
	}
	metrics.ResponsesSent.WithLabelValues(string(action.Response.Kind)).Inc()
	return nil
}

func (b *Bot) setModeration(ctx context.Context, in telegram.Inbound, enabled bool) error {
	allowed, err := b.isPrivileged(ctx, in.AuthorID)
	if err != nil {
		return err
	}
	if !allowed {
		return b.send(ctx, telegram.Reply(in.ChatID, in.MessageID, txtGroupAdminOnly))
	}

	if err := b.store.SetModerationFlag(ctx, enabled); err != nil {
		return err
	}
	b.deleteBestEffort(ctx, in.ChatID, in.MessageID)

	text := txtModerationOff
	if enabled {
		text = txtModerationOn
	}
	return b.reply(ctx, in.ChatID, text)
}
