package handlers

import (
	"context"
	"errors"
	"log"

	"community-helper-bot/conversation"
	"community-helper-bot/telegram"
)

// Every action in this file is reachable only through adminActions, which
// refuses everyone but the main admin.

func (b *Bot) openControlPanel(ctx context.Context, in telegram.Inbound) error {
	return b.send(ctx, telegram.WithKeyboard(in.ChatID, txtControlPanel, adminPanelKeyboard()))
}

func (b *Bot) openResponsesMenu(ctx context.Context, in telegram.Inbound) error {
	return b.send(ctx, telegram.WithKeyboard(in.ChatID, txtChooseOperation, responsesKeyboard()))
}

func (b *Bot) openManagersMenu(ctx context.Context, in telegram.Inbound) error {
	return b.send(ctx, telegram.WithKeyboard(in.ChatID, txtManagersMenu, managersKeyboard()))
}

func (b *Bot) backToMainMenu(ctx context.Context, in telegram.Inbound) error {
	return b.send(ctx, telegram.WithKeyboard(in.ChatID, txtBackToMain, mainMenuKeyboard(true)))
}

func (b *Bot) showTopReferrers(ctx context.Context, in telegram.Inbound) error {
	top, err := b.store.TopReferrers(ctx, 10)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		return b.reply(ctx, in.ChatID, txtNoReferrals)
	}
	return b.reply(ctx, in.ChatID, txtTopReferrers(top))
}

func (b *Bot) exportReferrals(ctx context.Context, in telegram.Inbound) error {
	data, err := b.store.ReferralReport(ctx)
	if err != nil {
		return err
	}
	return b.send(ctx, telegram.File(in.ChatID, "referrals.xlsx", data, txtExportCaption))
}

func (b *Bot) showSettings(ctx context.Context, in telegram.Inbound) error {
	moderation, err := b.store.GetModerationFlag(ctx)
	if err != nil {
		return err
	}
	return b.reply(ctx, in.ChatID, txtSettings(moderation))
}

func (b *Bot) listManagers(ctx context.Context, in telegram.Inbound) error {
	managers, err := b.store.ListManagers(ctx)
	if err != nil {
		return err
	}
	if len(managers) == 0 {
		return b.reply(ctx, in.ChatID, txtNoManagers)
	}
	return b.reply(ctx, in.ChatID, txtManagerList(managers))
}

func (b *Bot) startBroadcast(ctx context.Context, in telegram.Inbound) error {
	b.conversations.Begin(workflowKey(in), conversation.WorkflowBroadcast)
	return b.reply(ctx, in.ChatID, txtBroadcastPrompt)
}

func (b *Bot) startAddManager(ctx context.Context, in telegram.Inbound) error {
	b.conversations.Begin(workflowKey(in), conversation.WorkflowAddManager)
	return b.reply(ctx, in.ChatID, txtManagerAddPrompt)
}

func (b *Bot) startRemoveManager(ctx context.Context, in telegram.Inbound) error {
	b.conversations.Begin(workflowKey(in), conversation.WorkflowRemoveManager)
	return b.reply(ctx, in.ChatID, txtManagerDelPrompt)
}

func (b *Bot) acceptManagerID(ctx context.Context, in telegram.Inbound, key conversation.Key, state conversation.State) error {
	next, err := state.AcceptTargetID(in.Text, b.conversations.Now())
	if errors.Is(err, conversation.ErrInvalidInput) {
		return b.reply(ctx, in.ChatID, txtInvalidID)
	}
	if err != nil {
		return err
	}

	var text string
	switch next.Workflow {
	case conversation.WorkflowAddManager:
		if err := b.store.AddManager(ctx, next.TargetID, in.AuthorID); err != nil {
			return err
		}
		log.Printf("✅ [ADMIN] Manager %d added by %d", next.TargetID, in.AuthorID)
		text = txtManagerAdded(next.TargetID)
	case conversation.WorkflowRemoveManager:
		removed, err := b.store.RemoveManager(ctx, next.TargetID)
		if err != nil {
			return err
		}
		text = txtManagerUnknown(next.TargetID)
		if removed {
			log.Printf("✅ [ADMIN] Manager %d removed by %d", next.TargetID, in.AuthorID)
			text = txtManagerRemoved(next.TargetID)
		}
	}

	b.conversations.Clear(key)
	return b.send(ctx, telegram.WithKeyboard(in.ChatID, text, managersKeyboard()))
}

func (b *Bot) acceptBroadcast(ctx context.Context, in telegram.Inbound, key conversation.Key, state conversation.State) error {
	next, err := state.AcceptBroadcast(in.Text, b.conversations.Now())
	if errors.Is(err, conversation.ErrInvalidInput) {
		return b.reply(ctx, in.ChatID, txtBroadcastEmpty)
	}
	if err != nil {
		return err
	}

	if err := b.reply(ctx, b.cfg.ManagedGroupID, txtBroadcastHeader+next.Text); err != nil {
		return err
	}
	b.conversations.Clear(key)
	log.Printf("📢 [ADMIN] Broadcast sent by %d", in.AuthorID)
	return b.reply(ctx, in.ChatID, txtBroadcastSent)
}

func workflowKey(in telegram.Inbound) conversation.Key {
	return conversation.Key{ChatID: in.ChatID, UserID: in.AuthorID}
}
