package handlers

import (
	"context"
	"errors"
	"log"

	"community-helper-bot/conversation"
	"community-helper-bot/services"
	"community-helper-bot/telegram"
)

func (b *Bot) startAddResponse(ctx context.Context, in telegram.Inbound) error {
	b.conversations.Begin(workflowKey(in), conversation.WorkflowAddResponse)
	return b.reply(ctx, in.ChatID, txtAddTrigger)
}

func (b *Bot) startEditResponse(ctx context.Context, in telegram.Inbound) error {
	b.conversations.Begin(workflowKey(in), conversation.WorkflowEditResponse)
	return b.reply(ctx, in.ChatID, txtEditTrigger)
}

func (b *Bot) startDeleteResponse(ctx context.Context, in telegram.Inbound) error {
	b.conversations.Begin(workflowKey(in), conversation.WorkflowDeleteResponse)
	return b.reply(ctx, in.ChatID, txtDeleteTrigger)
}

// acceptTrigger checks the trigger against the store: add needs it absent,
// edit and delete need it present. A failed check ends the workflow.
func (b *Bot) acceptTrigger(ctx context.Context, in telegram.Inbound, key conversation.Key, state conversation.State) error {
	next, err := state.AcceptTrigger(in.Text, b.conversations.Now())
	if errors.Is(err, conversation.ErrInvalidInput) {
		return b.reply(ctx, in.ChatID, txtInvalidTrigger)
	}
	if err != nil {
		return err
	}

	existing, err := b.store.FindResponse(ctx, next.Trigger)
	if err != nil {
		return err
	}

	// Delete needs nothing beyond the trigger and commits here.
	if next.Ready() {
		b.conversations.Clear(key)
		if existing == nil {
			return b.reply(ctx, in.ChatID, txtTriggerMissing)
		}
		err := b.store.DeleteResponse(ctx, next.Trigger)
		if errors.Is(err, services.ErrResponseNotFound) {
			return b.reply(ctx, in.ChatID, txtTriggerMissing)
		}
		if err != nil {
			return err
		}
		log.Printf("🗑 [RESPONSES] Deleted trigger %q", next.Trigger)
		return b.send(ctx, telegram.WithKeyboard(in.ChatID, txtResponseDeleted, responsesKeyboard()))
	}

	switch next.Workflow {
	case conversation.WorkflowAddResponse:
		if existing != nil {
			b.conversations.Clear(key)
			return b.reply(ctx, in.ChatID, txtTriggerExists)
		}
		b.conversations.Set(key, next)
		return b.send(ctx, telegram.WithKeyboard(in.ChatID, txtChooseKind, kindKeyboard()))

	case conversation.WorkflowEditResponse:
		if existing == nil {
			b.conversations.Clear(key)
			return b.reply(ctx, in.ChatID, txtTriggerMissing)
		}
		b.conversations.Set(key, next)
		return b.send(ctx, telegram.WithKeyboard(in.ChatID, txtChooseNewKind, kindKeyboard()))
	}

	b.conversations.Clear(key)
	return nil
}

func (b *Bot) acceptKind(ctx context.Context, in telegram.Inbound, key conversation.Key, state conversation.State) error {
	next, err := state.AcceptKind(in.Text, b.conversations.Now())
	if errors.Is(err, conversation.ErrInvalidInput) {
		return b.reply(ctx, in.ChatID, txtInvalidKind)
	}
	if err != nil {
		return err
	}

	b.conversations.Set(key, next)
	editing := next.Workflow == conversation.WorkflowEditResponse
	return b.send(ctx, telegram.Outgoing{ChatID: in.ChatID, Text: contentPrompt(next.Kind, editing), RemoveKeyboard: true})
}

// acceptContent takes text for text and link kinds, or an attachment of the
// chosen kind, then commits the rule in a single store call.
func (b *Bot) acceptContent(ctx context.Context, in telegram.Inbound, key conversation.Key, state conversation.State) error {
	var (
		content string
		media   []byte
	)

	if state.Kind.IsMedia() {
		if in.Attachment == nil || in.Attachment.Kind != state.Kind {
			return b.reply(ctx, in.ChatID, txtMissingFile)
		}
		data, err := b.messenger.Download(ctx, in.Attachment.FileID)
		if err != nil {
			return err
		}
		media = data
		content = telegram.EncodeMedia(data)
	} else {
		content = in.Text
	}

	next, err := state.AcceptContent(content, b.conversations.Now())
	if errors.Is(err, conversation.ErrInvalidInput) {
		if state.Kind.IsMedia() {
			return b.reply(ctx, in.ChatID, txtMissingFile)
		}
		return b.reply(ctx, in.ChatID, txtInvalidText)
	}
	if err != nil {
		return err
	}

	response := next.Response()
	if err := b.validate.Struct(response); err != nil {
		log.Printf("⚠️  [RESPONSES] Rejected rule %q: %v", response.Trigger, err)
		return b.reply(ctx, in.ChatID, txtInvalidText)
	}

	var done string
	switch next.Workflow {
	case conversation.WorkflowAddResponse:
		err = b.store.InsertResponse(ctx, response)
		if errors.Is(err, services.ErrTriggerExists) {
			b.conversations.Clear(key)
			return b.reply(ctx, in.ChatID, txtTriggerExists)
		}
		done = txtResponseSaved
	case conversation.WorkflowEditResponse:
		err = b.store.UpdateResponse(ctx, response.Trigger, response.Kind, response.Content)
		if errors.Is(err, services.ErrResponseNotFound) {
			b.conversations.Clear(key)
			return b.reply(ctx, in.ChatID, txtTriggerMissing)
		}
		done = txtResponseUpdated
	}
	if err != nil {
		return err
	}

	b.conversations.Clear(key)
	log.Printf("✅ [RESPONSES] Saved %s rule %q", response.Kind, response.Trigger)

	if media != nil {
		b.archiveMedia(ctx, response.Trigger, state, media)
	}
	return b.send(ctx, telegram.WithKeyboard(in.ChatID, done, responsesKeyboard()))
}

func (b *Bot) archiveMedia(ctx context.Context, trigger string, state conversation.State, data []byte) {
	if b.archive == nil {
		return
	}
	url, err := b.archive.ArchiveResponse(ctx, trigger, state.Kind, data)
	if err != nil {
		reportError("ARCHIVE", err)
		return
	}
	log.Printf("☁️  [ARCHIVE] %q stored at %s", trigger, url)
}
