package telegram

import (
	"strconv"
	"strings"

	"community-helper-bot/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ChatKind string

const (
	ChatPrivate    ChatKind = "private"
	ChatGroup      ChatKind = "group"
	ChatSupergroup ChatKind = "supergroup"
	ChatChannel    ChatKind = "channel"
)

func (k ChatKind) IsGroup() bool {
	return k == ChatGroup || k == ChatSupergroup
}

// Attachment references a file already stored on Telegram's side.
type Attachment struct {
	Kind   models.ResponseKind
	FileID string
}

// Inbound is the transport-neutral view of one incoming message.
type Inbound struct {
	UpdateID   int
	AuthorID   int64
	Username   string
	FirstName  string
	IsBot      bool
	ChatID     int64
	ChatKind   ChatKind
	MessageID  int
	Text       string
	Caption    string
	Command    string
	Args       string
	Attachment *Attachment
}

// Body is the message text, or the caption for media messages.
func (in Inbound) Body() string {
	if in.Text != "" {
		return in.Text
	}
	return in.Caption
}

// Handle is the author's @username without the @, or the numeric identity.
func (in Inbound) Handle() string {
	if in.Username != "" {
		return in.Username
	}
	return strconv.FormatInt(in.AuthorID, 10)
}

// FromUpdate extracts the message carried by u. Edits, callbacks and other
// update types report false.
func FromUpdate(u tgbotapi.Update) (Inbound, bool) {
	msg := u.Message
	if msg == nil || msg.Chat == nil {
		return Inbound{}, false
	}

	in := Inbound{
		UpdateID:  u.UpdateID,
		ChatID:    msg.Chat.ID,
		ChatKind:  ChatKind(msg.Chat.Type),
		MessageID: msg.MessageID,
		Text:      msg.Text,
		Caption:   msg.Caption,
	}
	if msg.From != nil {
		in.AuthorID = msg.From.ID
		in.Username = msg.From.UserName
		in.FirstName = msg.From.FirstName
		in.IsBot = msg.From.IsBot
	}
	if msg.IsCommand() {
		in.Command = msg.Command()
		in.Args = strings.TrimSpace(msg.CommandArguments())
	}
	in.Attachment = attachmentOf(msg)
	return in, true
}

func attachmentOf(msg *tgbotapi.Message) *Attachment {
	switch {
	case len(msg.Photo) > 0:
		// Sizes are ascending; keep the largest.
		return &Attachment{Kind: models.ResponseKindPhoto, FileID: msg.Photo[len(msg.Photo)-1].FileID}
	case msg.Video != nil:
		return &Attachment{Kind: models.ResponseKindVideo, FileID: msg.Video.FileID}
	case msg.Audio != nil:
		return &Attachment{Kind: models.ResponseKindAudio, FileID: msg.Audio.FileID}
	case msg.Voice != nil:
		return &Attachment{Kind: models.ResponseKindAudio, FileID: msg.Voice.FileID}
	case msg.Document != nil:
		return &Attachment{Kind: models.ResponseKindDocument, FileID: msg.Document.FileID}
	}
	return nil
}
