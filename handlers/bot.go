package handlers

import (
	"context"
	"log"

	"community-helper-bot/config"
	"community-helper-bot/conversation"
	"community-helper-bot/metrics"
	"community-helper-bot/models"
	"community-helper-bot/services"
	"community-helper-bot/telegram"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
)

// Messenger is the part of the Telegram client the bot drives.
type Messenger interface {
	Send(ctx context.Context, out telegram.Outgoing) error
	Delete(ctx context.Context, chatID int64, messageID int) error
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// MediaArchiver stores a copy of uploaded response media.
type MediaArchiver interface {
	ArchiveResponse(ctx context.Context, trigger string, kind models.ResponseKind, data []byte) (string, error)
}

type Options struct {
	Config        *config.Config
	Store         *services.Store
	Cooldown      services.Cooldown
	Conversations *conversation.Store
	Messenger     Messenger
	// Archive is optional.
	Archive MediaArchiver
}

type menuAction func(ctx context.Context, in telegram.Inbound) error

// Bot routes Telegram updates to the referral, response and admin flows.
type Bot struct {
	cfg           *config.Config
	store         *services.Store
	referrals     *services.ReferralService
	rewards       *services.RewardService
	responder     *services.Responder
	conversations *conversation.Store
	messenger     Messenger
	archive       MediaArchiver
	validate      *validator.Validate

	userActions  map[string]menuAction
	adminActions map[string]menuAction
}

func NewBot(opts Options) *Bot {
	b := &Bot{
		cfg:           opts.Config,
		store:         opts.Store,
		referrals:     services.NewReferralService(opts.Store),
		responder:     services.NewResponder(opts.Store, opts.Cooldown),
		conversations: opts.Conversations,
		messenger:     opts.Messenger,
		archive:       opts.Archive,
		validate:      validator.New(),
	}
	b.rewards = services.NewRewardService(opts.Store, b, opts.Config.RewardThreshold)
	b.registerActions()
	return b
}

func (b *Bot) registerActions() {
	b.userActions = map[string]menuAction{
		btnGroupLink:    b.showGroupLink,
		btnSupport:      b.showSupport,
		btnReferralLink: b.showReferralLink,
		btnRules:        b.showRules,
		btnMyStats:      b.showMyStats,
		btnRewards:      b.showRewards,
	}
	b.adminActions = map[string]menuAction{
		btnControlPanel:  b.openControlPanel,
		btnBackToPanel:   b.openControlPanel,
		btnResponsesMenu: b.openResponsesMenu,
		btnManagersMenu:  b.openManagersMenu,
		btnTopReferrers:  b.showTopReferrers,
		btnExport:        b.exportReferrals,
		btnBroadcast:     b.startBroadcast,
		btnSettings:      b.showSettings,
		btnBackToMain:    b.backToMainMenu,
		btnAddResponse:   b.startAddResponse,
		btnEditResponse:  b.startEditResponse,
		btnDeleteResp:    b.startDeleteResponse,
		btnAddManager:    b.startAddManager,
		btnRemoveManager: b.startRemoveManager,
		btnListManagers:  b.listManagers,
	}
}

// AnnounceReward posts the one-time reward message to the managed group.
func (b *Bot) AnnounceReward(ctx context.Context, referrer *models.Member) error {
	return b.send(ctx, telegram.Text(b.cfg.ManagedGroupID, txtReward(referrer.Handle())))
}

func (b *Bot) isMainAdmin(id int64) bool {
	return id == b.cfg.MainAdminID
}

// isPrivileged reports whether id is the main admin or a manager.
func (b *Bot) isPrivileged(ctx context.Context, id int64) (bool, error) {
	if b.isMainAdmin(id) {
		return true, nil
	}
	return b.store.IsManager(ctx, id)
}

func (b *Bot) send(ctx context.Context, out telegram.Outgoing) error {
	return b.messenger.Send(ctx, out)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) error {
	return b.messenger.Send(ctx, telegram.Text(chatID, text))
}

// deleteBestEffort removes a message and ignores failure.
func (b *Bot) deleteBestEffort(ctx context.Context, chatID int64, messageID int) {
	if err := b.messenger.Delete(ctx, chatID, messageID); err != nil {
		metrics.Deletions.WithLabelValues("failed").Inc()
		log.Printf("⚠️  [MODERATION] Could not delete message %d in %d: %v", messageID, chatID, err)
		return
	}
	metrics.Deletions.WithLabelValues("ok").Inc()
}

// reportError logs a failure that is not returned to the caller and forwards it
// to Sentry when configured.
func reportError(tag string, err error) {
	log.Printf("❌ [%s] %v", tag, err)
	sentry.CaptureException(err)
}
