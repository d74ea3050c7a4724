package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"community-helper-bot/config"
	"community-helper-bot/conversation"
	"community-helper-bot/database"
	"community-helper-bot/models"
	"community-helper-bot/services"
	"community-helper-bot/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

const (
	adminID = int64(1)
	groupID = int64(-1001)
)

type deletion struct {
	chatID    int64
	messageID int
}

type fakeMessenger struct {
	mu        sync.Mutex
	sent      []telegram.Outgoing
	deleted   []deletion
	files     map[string][]byte
	deleteErr error
}

func (f *fakeMessenger) Send(_ context.Context, out telegram.Outgoing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, out)
	return nil
}

func (f *fakeMessenger) Delete(_ context.Context, chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, deletion{chatID, messageID})
	return nil
}

func (f *fakeMessenger) Download(_ context.Context, fileID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[fileID]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// to returns the messages sent to chatID.
func (f *fakeMessenger) to(chatID int64) []telegram.Outgoing {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []telegram.Outgoing
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMessenger) last(chatID int64) telegram.Outgoing {
	msgs := f.to(chatID)
	if len(msgs) == 0 {
		return telegram.Outgoing{}
	}
	return msgs[len(msgs)-1]
}

func (f *fakeMessenger) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.deleted = nil
}

type fakeArchive struct {
	mu     sync.Mutex
	stored map[string][]byte
}

func (a *fakeArchive) ArchiveResponse(_ context.Context, trigger string, kind models.ResponseKind, data []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stored == nil {
		a.stored = map[string][]byte{}
	}
	a.stored[trigger] = data
	return "https://archive.test/" + trigger, nil
}

type fixture struct {
	bot       *Bot
	store     *services.Store
	messenger *fakeMessenger
	convs     *conversation.Store
	archive   *fakeArchive
	cfg       *config.Config
	nextMsg   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		BotUsername:     "helper_bot",
		MainAdminID:     adminID,
		ManagedGroupID:  groupID,
		SupportUsername: "support_team",
		GroupInviteLink: "https://t.me/+invite",
		DBType:          "sqlite",
		DatabaseURL:     "file::memory:",
		DBMaxConns:      1,
		RewardThreshold: 3,
		SpamWindow:      5 * time.Second,
		ConversationTTL: 30 * time.Minute,
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { database.Close(db) })

	store := services.NewStore(db)
	messenger := &fakeMessenger{files: map[string][]byte{}}
	convs := conversation.NewStore(cfg.ConversationTTL)
	archive := &fakeArchive{}

	bot := NewBot(Options{
		Config:        cfg,
		Store:         store,
		Cooldown:      services.NewMemoryCooldown(cfg.SpamWindow),
		Conversations: convs,
		Messenger:     messenger,
		Archive:       archive,
	})

	return &fixture{bot: bot, store: store, messenger: messenger, convs: convs, archive: archive, cfg: cfg}
}

func (f *fixture) message(chatID int64, chatType string, from int64, username, text string) *tgbotapi.Message {
	f.nextMsg++
	msg := &tgbotapi.Message{
		MessageID: f.nextMsg,
		From:      &tgbotapi.User{ID: from, UserName: username, FirstName: "user"},
		Chat:      &tgbotapi.Chat{ID: chatID, Type: chatType},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmd := strings.SplitN(text, " ", 2)[0]
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return msg
}

func (f *fixture) dispatch(t *testing.T, msg *tgbotapi.Message) {
	t.Helper()
	require.NoError(t, f.bot.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: msg.MessageID, Message: msg}))
}

// private sends text from user in their own private chat.
func (f *fixture) private(t *testing.T, user int64, username, text string) {
	t.Helper()
	f.dispatch(t, f.message(user, "private", user, username, text))
}

// group sends text from user in the managed group and returns the message ID.
func (f *fixture) group(t *testing.T, user int64, text string) int {
	t.Helper()
	msg := f.message(groupID, "supergroup", user, "", text)
	f.dispatch(t, msg)
	return msg.MessageID
}
