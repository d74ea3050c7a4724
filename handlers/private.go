package handlers

import (
	"context"
	"log"
	"strconv"
	"strings"

	"community-helper-bot/conversation"
	"community-helper-bot/telegram"
)

func (b *Bot) handlePrivate(ctx context.Context, in telegram.Inbound) error {
	key := conversation.Key{ChatID: in.ChatID, UserID: in.AuthorID}

	if in.Command == "start" {
		b.conversations.Clear(key)
		return b.handleStart(ctx, in)
	}

	text := strings.TrimSpace(in.Text)

	// Menu buttons always win and abandon any workflow in progress.
	if action, ok := b.userActions[text]; ok {
		b.conversations.Clear(key)
		return action(ctx, in)
	}
	if action, ok := b.adminActions[text]; ok {
		b.conversations.Clear(key)
		if !b.isMainAdmin(in.AuthorID) {
			return b.reply(ctx, in.ChatID, txtAdminOnly)
		}
		return action(ctx, in)
	}

	if state, ok := b.conversations.Get(key); ok {
		return b.continueWorkflow(ctx, in, key, state)
	}

	switch text {
	case kwReferrals:
		return b.showReferralDashboard(ctx, in)
	case kwSupport:
		return b.reply(ctx, in.ChatID, txtSupportShort(b.cfg.SupportUsername))
	}
	return nil
}

// handleStart onboards the sender. A numeric payload names the referrer and is
// credited only on the sender's first contact.
func (b *Bot) handleStart(ctx context.Context, in telegram.Inbound) error {
	var username *string
	if in.Username != "" {
		u := in.Username
		username = &u
	}

	referrerID, hasReferrer := parseReferrer(in.Args, in.AuthorID)
	var referredBy *int64
	if hasReferrer {
		referredBy = &referrerID
	}

	_, created, err := b.store.GetOrCreateMember(ctx, in.AuthorID, username, referredBy)
	if err != nil {
		return err
	}

	if created && hasReferrer {
		count, err := b.referrals.RecordReferral(ctx, referrerID, in.AuthorID)
		if err != nil {
			return err
		}
		if count > 0 {
			b.announceReferral(ctx, in, referrerID, count)
		}
	}

	return b.send(ctx, telegram.WithKeyboard(in.ChatID, txtWelcome, mainMenuKeyboard(b.isMainAdmin(in.AuthorID))))
}

func parseReferrer(payload string, self int64) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
	if err != nil || id <= 0 || id == self {
		return 0, false
	}
	return id, true
}

// announceReferral posts the new-referral notice and runs the reward trigger.
// Both are group side effects of a committed referral; failures are reported,
// not returned. A failed reward announcement leaves no record and fires on the
// referrer's next referral.
func (b *Bot) announceReferral(ctx context.Context, in telegram.Inbound, referrerID int64, count int) {
	referrerHandle := strconv.FormatInt(referrerID, 10)
	referrer, err := b.store.FindMember(ctx, referrerID)
	if err != nil {
		reportError("REFERRAL", err)
	} else if referrer != nil {
		referrerHandle = referrer.Handle()
	}

	if err := b.send(ctx, telegram.Text(b.cfg.ManagedGroupID, txtNewReferral(in.Handle(), referrerHandle, count))); err != nil {
		reportError("REFERRAL", err)
	}

	if _, err := b.rewards.MaybeAnnounceReward(ctx, referrerID, count); err != nil {
		reportError("REWARD", err)
	}
}

func (b *Bot) showGroupLink(ctx context.Context, in telegram.Inbound) error {
	return b.reply(ctx, in.ChatID, txtGroupLink(b.cfg.GroupInviteLink))
}

func (b *Bot) showSupport(ctx context.Context, in telegram.Inbound) error {
	return b.reply(ctx, in.ChatID, txtSupport(b.cfg.SupportUsername))
}

func (b *Bot) showReferralLink(ctx context.Context, in telegram.Inbound) error {
	return b.reply(ctx, in.ChatID, txtReferralLink(b.cfg.ReferralLink(in.AuthorID)))
}

func (b *Bot) showRules(ctx context.Context, in telegram.Inbound) error {
	return b.reply(ctx, in.ChatID, txtRules)
}

func (b *Bot) showMyStats(ctx context.Context, in telegram.Inbound) error {
	member, err := b.store.FindMember(ctx, in.AuthorID)
	if err != nil {
		return err
	}
	if member == nil {
		return b.reply(ctx, in.ChatID, txtNoStats)
	}

	referred, err := b.store.ReferredMembers(ctx, in.AuthorID)
	if err != nil {
		return err
	}
	return b.reply(ctx, in.ChatID, txtMyStats(in.Username, member.ReferralCount, referred))
}

func (b *Bot) showRewards(ctx context.Context, in telegram.Inbound) error {
	count, err := b.referralCount(ctx, in.AuthorID)
	if err != nil {
		return err
	}
	return b.reply(ctx, in.ChatID, txtRewards(b.rewards.Threshold(), count, b.rewards.Eligible(count)))
}

func (b *Bot) showReferralDashboard(ctx context.Context, in telegram.Inbound) error {
	count, err := b.referralCount(ctx, in.AuthorID)
	if err != nil {
		return err
	}
	return b.reply(ctx, in.ChatID, txtReferralDashboard(b.cfg.ReferralLink(in.AuthorID), count))
}

func (b *Bot) referralCount(ctx context.Context, id int64) (int, error) {
	member, err := b.store.FindMember(ctx, id)
	if err != nil || member == nil {
		return 0, err
	}
	return member.ReferralCount, nil
}

// continueWorkflow feeds one message into the sender's in-flight workflow.
// Only the main admin may advance a workflow; anyone else aborts it.
func (b *Bot) continueWorkflow(ctx context.Context, in telegram.Inbound, key conversation.Key, state conversation.State) error {
	if !b.isMainAdmin(in.AuthorID) {
		b.conversations.Clear(key)
		log.Printf("🚫 [WORKFLOW] Aborted %s for non-admin %d", state.Workflow, in.AuthorID)
		return nil
	}

	switch state.Step {
	case conversation.StepTrigger:
		return b.acceptTrigger(ctx, in, key, state)
	case conversation.StepKind:
		return b.acceptKind(ctx, in, key, state)
	case conversation.StepContent:
		return b.acceptContent(ctx, in, key, state)
	case conversation.StepTargetID:
		return b.acceptManagerID(ctx, in, key, state)
	case conversation.StepBroadcastText:
		return b.acceptBroadcast(ctx, in, key, state)
	}

	b.conversations.Clear(key)
	return nil
}
